package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edusurvey/core"
	"github.com/trezcool/edusurvey/core/school"
)

type schoolApi struct {
	dir Directory
}

func registerSchoolAPI(e *echo.Echo, dir Directory) {
	api := schoolApi{dir: dir}
	e.GET("/school-info", api.info)
	e.GET("/school-search", api.search)
	e.GET("/neis", api.proxy)
}

// Handlers

func (api *schoolApi) info(ctx echo.Context) error {
	raw := strings.TrimSpace(ctx.QueryParam("code"))
	if raw == "" {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": msgMissingSchoolCode})
	}
	id, ok := school.ParseCode(raw)
	if !ok {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": msgInvalidSchoolCode})
	}

	rec, err := api.dir.LookupByCode(ctx.Request().Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, school.ErrNotFound):
			return ctx.JSON(http.StatusOK, echo.Map{"success": false, "error": msgSchoolNotFound})
		case errors.Is(err, school.ErrLookupFailed):
			ctx.Logger().Errorf("%+v", errors.Wrap(err, "looking up school"))
			return ctx.JSON(http.StatusBadGateway, echo.Map{"success": false, "error": msgLookupFailed})
		}
		return errors.Wrap(err, "looking up school")
	}

	return ctx.JSON(http.StatusOK, SchoolInfoResponse{
		Success:    true,
		SchoolName: rec.Name,
		Address:    rec.Address,
		SchoolType: rec.TypeLabel,
	})
}

// search lists the schools whose name contains `name`, closest names first.
func (api *schoolApi) search(ctx echo.Context) error {
	name := core.CleanString(ctx.QueryParam("name"))
	if name == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "name", Error: msgSearchNameRequired})
	}

	records, err := api.dir.LookupByName(ctx.Request().Context(), name)
	if err != nil {
		if errors.Is(err, school.ErrLookupFailed) {
			ctx.Logger().Errorf("%+v", errors.Wrap(err, "searching schools"))
			return ctx.JSON(http.StatusBadGateway, echo.Map{"error": msgLookupFailed})
		}
		return errors.Wrap(err, "searching schools")
	}

	results := make([]SchoolSearchResult, 0, len(records))
	for _, rec := range school.RankByName(records, name) {
		results = append(results, SchoolSearchResult{
			Name:          rec.Name,
			StandardCode:  rec.StandardCode,
			AuthorityCode: rec.AuthorityCode,
			FullCode:      rec.FullCode(),
			Address:       rec.Address,
			TypeLabel:     rec.TypeLabel,
		})
	}
	return ctx.JSON(http.StatusOK, results)
}

// proxy passes the query through to the directory dataset.
func (api *schoolApi) proxy(ctx echo.Context) error {
	body, err := api.dir.Proxy(ctx.Request().Context(), ctx.QueryParams())
	if err != nil {
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "proxying directory request"))
		return ctx.JSON(http.StatusInternalServerError, echo.Map{"error": msgLookupFailed})
	}
	return ctx.JSONBlob(http.StatusOK, body)
}
