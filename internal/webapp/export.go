package webapp

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/certpanel/certpanel/core/handler"
	"github.com/certpanel/certpanel/core/response"
	"github.com/certpanel/certpanel/internal/storage"
)

const pemContentType = "application/x-pem-file"

// exportTarget resolves and validates the {account_id}/{name} pair common
// to all export routes.
func (a *App) exportTarget(ctx *Context) (int64, string, error) {
	accountID, err := strconv.ParseInt(ctx.Param("account_id"), 10, 64)
	if err != nil {
		return 0, "", response.ErrNotFound.WithMessage("not found")
	}

	name := ctx.Param("name")
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\") {
		return 0, "", response.ErrNotFound.WithMessage("not found")
	}

	return accountID, name, nil
}

// readPEM loads one PEM file, mapping a missing file to a 404 whose body
// names the file.
func (a *App) readPEM(accountID int64, name, which string) ([]byte, error) {
	data, err := os.ReadFile(a.layout.PEMPath(accountID, name, which))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, response.ErrNotFound.WithMessage("missing " + which + ".pem")
		}
		return nil, err
	}
	return data, nil
}

// handleExportPEM serves a single PEM file verbatim.
func (a *App) handleExportPEM(ctx *Context) handler.Response {
	accountID, name, err := a.exportTarget(ctx)
	if err != nil {
		return response.Error(err)
	}

	which := ctx.Param("which")
	switch which {
	case storage.PEMFullchain, storage.PEMPrivkey, storage.PEMCert, storage.PEMChain:
	default:
		return response.Error(response.ErrNotFound.WithMessage("not found"))
	}

	data, err := a.readPEM(accountID, name, which)
	if err != nil {
		return response.Error(err)
	}

	return response.Attachment(data, fmt.Sprintf("%s-%s.pem", name, which), pemContentType)
}

// handleExportCombined serves fullchain and privkey concatenated with a
// single newline between them, the layout haproxy and friends expect.
func (a *App) handleExportCombined(ctx *Context) handler.Response {
	accountID, name, err := a.exportTarget(ctx)
	if err != nil {
		return response.Error(err)
	}

	fullchain, err := a.readPEM(accountID, name, storage.PEMFullchain)
	if err != nil {
		return response.Error(err)
	}
	privkey, err := a.readPEM(accountID, name, storage.PEMPrivkey)
	if err != nil {
		return response.Error(err)
	}

	combined := make([]byte, 0, len(fullchain)+1+len(privkey))
	combined = append(combined, fullchain...)
	combined = append(combined, '\n')
	combined = append(combined, privkey...)

	return response.Attachment(combined, name+"-combined.pem", pemContentType)
}

// handleExportBundle serves all four PEM files in a zip archive with
// canonical arcnames. The first missing file aborts with a 404 naming it.
func (a *App) handleExportBundle(ctx *Context) handler.Response {
	accountID, name, err := a.exportTarget(ctx)
	if err != nil {
		return response.Error(err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, which := range storage.PEMFiles {
		data, err := a.readPEM(accountID, name, which)
		if err != nil {
			return response.Error(err)
		}

		entry, err := zw.Create(which + ".pem")
		if err != nil {
			return response.Error(err)
		}
		if _, err := entry.Write(data); err != nil {
			return response.Error(err)
		}
	}
	if err := zw.Close(); err != nil {
		return response.Error(err)
	}

	return response.Attachment(buf.Bytes(), name+"-bundle.zip", "application/zip")
}
