package echoapi

import (
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edusurvey/core/checklist"
)

type checklistApi struct {
	store *checklist.Store
}

func registerChecklistAPI(e *echo.Echo, store *checklist.Store) {
	api := checklistApi{store: store}
	e.GET("/checklists/:name", api.download)
}

// Handlers

func (api *checklistApi) download(ctx echo.Context) error {
	if api.store == nil {
		return echo.NewHTTPError(http.StatusNotFound, msgChecklistNotFound)
	}

	doc, err := api.store.Find(ctx.Param("name"))
	if err != nil {
		if errors.Is(err, checklist.ErrNotFound) || errors.Is(err, checklist.ErrInvalidName) {
			return echo.NewHTTPError(http.StatusNotFound, msgChecklistNotFound)
		}
		return errors.Wrap(err, "finding checklist")
	}
	defer doc.Close()

	ctype := mime.TypeByExtension(filepath.Ext(doc.Name))
	if ctype == "" {
		ctype = echo.MIMEOctetStream
	}
	header := ctx.Response().Header()
	header.Set(echo.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": doc.Name}))
	header.Set(echo.HeaderContentLength, strconv.FormatInt(doc.Size, 10))
	return ctx.Stream(http.StatusOK, ctype, doc)
}
