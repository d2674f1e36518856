package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edusurvey/core/survey"
)

type workspaceApi struct {
	svc      *survey.Service
	validate *validator.Validate
}

func registerWorkspaceAPI(e *echo.Echo, jwt echo.MiddlewareFunc, svc *survey.Service, validate *validator.Validate) {
	api := workspaceApi{svc: svc, validate: validate}

	wg := e.Group("/workspace", jwt)

	// surveys: teachers submit, managers curate
	wg.GET("/surveys", api.querySurveys)
	wg.POST("/surveys", api.createSurvey)
	wg.DELETE("/surveys", api.destroySurveys, managerMiddleware())
	wg.GET("/surveys/export", api.exportSurveys, managerMiddleware())
	wg.GET("/surveys/:id", api.retrieveSurvey)
	wg.PUT("/surveys/:id", api.updateSurvey, managerMiddleware())
	wg.DELETE("/surveys/:id", api.destroySurvey, managerMiddleware())

	wg.GET("/products", api.queryProducts)

	rg := wg.Group("/reasons", managerMiddleware())
	rg.GET("", api.queryReasons)
	rg.POST("", api.createReason)
	rg.POST("/:id/use", api.useReason)

	wg.POST("/form3", api.form3, managerMiddleware())
}

// Handlers

func (api *workspaceApi) querySurveys(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var ord Ordering
	ord.Bind(ctx)

	surveys, err := api.svc.QueryBySchool(ctx.Request().Context(), claims.SchoolCode(), ord.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying surveys")
	}
	return ctx.JSON(http.StatusOK, surveys)
}

func (api *workspaceApi) createSurvey(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data survey.NewSurvey
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSurvey")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.svc.Create(ctx.Request().Context(), claims.SchoolCode(), data)
	if err != nil {
		return errors.Wrap(err, "creating survey")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *workspaceApi) retrieveSurvey(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	s, err := api.svc.Get(ctx.Request().Context(), claims.SchoolCode(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, survey.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, msgSurveyNotFound)
		}
		return errors.Wrap(err, "getting survey")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *workspaceApi) updateSurvey(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data survey.UpdateSurvey
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSurvey")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.svc.Update(ctx.Request().Context(), claims.SchoolCode(), ctx.Param("id"), data)
	if err != nil {
		if errors.Is(err, survey.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, msgSurveyNotFound)
		}
		return errors.Wrap(err, "updating survey")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *workspaceApi) destroySurvey(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if err = api.svc.Delete(ctx.Request().Context(), claims.SchoolCode(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting survey")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *workspaceApi) destroySurveys(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data DeleteSurveysRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DeleteSurveysRequest")
	}
	if err = api.svc.Delete(ctx.Request().Context(), claims.SchoolCode(), data.IDs...); err != nil {
		return errors.Wrap(err, "deleting surveys")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// exportSurveys returns the surveys as the rows of the spreadsheet export.
func (api *workspaceApi) exportSurveys(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	surveys, err := api.svc.QueryBySchool(ctx.Request().Context(), claims.SchoolCode(), nil)
	if err != nil {
		return errors.Wrap(err, "querying surveys")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"header": survey.SurveyHeader, "rows": survey.SurveyRows(surveys)})
}

func (api *workspaceApi) queryProducts(ctx echo.Context) error {
	products, err := api.svc.QueryProducts(ctx.Request().Context(), ctx.QueryParam("search"))
	if err != nil {
		return errors.Wrap(err, "querying products")
	}
	return ctx.JSON(http.StatusOK, products)
}

func (api *workspaceApi) queryReasons(ctx echo.Context) error {
	reasons, err := api.svc.QueryReasons(ctx.Request().Context(), ctx.QueryParam("product_name"))
	if err != nil {
		return errors.Wrap(err, "querying selection reasons")
	}
	return ctx.JSON(http.StatusOK, reasons)
}

func (api *workspaceApi) createReason(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data survey.NewSelectionReason
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSelectionReason")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	r, err := api.svc.SaveReason(ctx.Request().Context(), claims.SchoolCode(), data)
	if err != nil {
		return errors.Wrap(err, "saving selection reason")
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *workspaceApi) useReason(ctx echo.Context) error {
	if err := api.svc.UseReason(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Is(err, survey.ErrReasonNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, msgReasonNotFound)
		}
		return errors.Wrap(err, "using selection reason")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// form3 builds the recommended products report; every product needs a reason.
func (api *workspaceApi) form3(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data Form3Request
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Form3Request")
	}

	rows, err := api.svc.Form3(ctx.Request().Context(), claims.SchoolCode(), data.Reasons)
	if err != nil {
		var missing *survey.MissingReasonsError
		if errors.As(err, &missing) {
			return ctx.JSON(http.StatusBadRequest, echo.Map{"error": missing.Error(), "products": missing.Products})
		}
		return errors.Wrap(err, "building form 3")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"header": survey.Form3Header, "rows": rows})
}
