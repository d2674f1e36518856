package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edusurvey/core/consent"
)

type consentApi struct {
	svc      *consent.Service
	validate *validator.Validate
}

func registerConsentAPI(e *echo.Echo, svc *consent.Service, validate *validator.Validate) {
	api := consentApi{svc: svc, validate: validate}
	e.POST("/consent", api.create)
}

// Handlers

func (api *consentApi) create(ctx echo.Context) error {
	var data consent.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidJSON})
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	data.ClientAddress = ctx.RealIP()
	data.UserAgent = ctx.Request().UserAgent()

	if _, err := api.svc.Record(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "recording consent")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}
