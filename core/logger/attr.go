package logger

import (
	"log/slog"
	"time"
)

// Attribute helpers keep field names consistent across the codebase.

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

func RequestID(id string) slog.Attr {
	return slog.String("request_id", id)
}

func Method(method string) slog.Attr {
	return slog.String("method", method)
}

func Path(path string) slog.Attr {
	return slog.String("path", path)
}

func StatusCode(code int) slog.Attr {
	return slog.Int("status_code", code)
}

func BytesOut(n int) slog.Attr {
	return slog.Int("bytes_out", n)
}

func JobID(id int64) slog.Attr {
	return slog.Int64("job_id", id)
}

func AccountID(id int64) slog.Attr {
	return slog.Int64("account_id", id)
}

func CertName(name string) slog.Attr {
	return slog.String("cert_name", name)
}
