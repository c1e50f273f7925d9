package response

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/certpanel/certpanel/core/handler"
)

// File creates a response that serves a file from the filesystem.
// Returns 404 if the file does not exist or is a directory.
func File(path string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		cleanPath := filepath.Clean(path)

		info, err := os.Stat(cleanPath)
		if err != nil {
			if os.IsNotExist(err) {
				http.NotFound(w, r)
				return nil
			}
			return err
		}
		if info.IsDir() {
			http.NotFound(w, r)
			return nil
		}

		// http.ServeFile handles Range requests and content type detection.
		http.ServeFile(w, r, cleanPath)
		return nil
	}
}

// Download creates a response that serves a file from the filesystem as an
// attachment with the given download name and content type. If contentType
// is empty it is detected from the filename extension.
func Download(path, filename, contentType string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		cleanPath := filepath.Clean(path)

		info, err := os.Stat(cleanPath)
		if err != nil {
			if os.IsNotExist(err) {
				http.NotFound(w, r)
				return nil
			}
			return err
		}
		if info.IsDir() {
			http.NotFound(w, r)
			return nil
		}

		name := filename
		if name == "" {
			name = filepath.Base(cleanPath)
		}
		setAttachmentHeaders(w, name, contentType)

		http.ServeFile(w, r, cleanPath)
		return nil
	}
}

// Attachment creates a response for downloading in-memory data as a file.
func Attachment(data []byte, filename, contentType string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		setAttachmentHeaders(w, filename, contentType)
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
		w.WriteHeader(http.StatusOK)
		_, err := w.Write(data)
		return err
	}
}

// FileReader creates a response that streams data from an io.Reader as a
// downloadable file, for content that should not be buffered in memory.
func FileReader(reader io.Reader, filename, contentType string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		setAttachmentHeaders(w, filename, contentType)
		w.WriteHeader(http.StatusOK)
		_, err := io.Copy(w, reader)
		return err
	}
}

func setAttachmentHeaders(w http.ResponseWriter, filename, contentType string) {
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, sanitizeFilename(filename)))

	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filename))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
	}
	w.Header().Set("Content-Type", contentType)
}

// sanitizeFilename strips characters that would allow HTTP header injection
// through the Content-Disposition filename.
func sanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\n", "")
	filename = strings.ReplaceAll(filename, "\r", "")
	return strings.ReplaceAll(filename, "\"", "'")
}
