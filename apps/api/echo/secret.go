package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edusurvey/core"
	"github.com/trezcool/edusurvey/core/secret"
)

const (
	actionSet    = "set"
	actionVerify = "verify"
	actionReset  = "reset"
)

type secretApi struct {
	svc      *secret.Service
	operator core.Operator
}

func registerSecretAPI(e *echo.Echo, svc *secret.Service, operator core.Operator) {
	api := secretApi{svc: svc, operator: operator}
	e.GET("/school-password", api.hasPassword)
	e.POST("/school-password", api.post)
	e.PUT("/school-password", api.change)
}

// Handlers

func (api *secretApi) hasPassword(ctx echo.Context) error {
	has, err := api.svc.HasSecret(ctx.Request().Context(), ctx.QueryParam("school_code"))
	if err != nil {
		if errors.Is(err, secret.ErrInvalidCode) {
			return ctx.JSON(http.StatusBadRequest, echo.Map{"error": core.SchoolCodeText})
		}
		return errors.Wrap(err, "checking school secret")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"hasPassword": has})
}

// post dispatches on the body action: set, verify or reset.
func (api *secretApi) post(ctx echo.Context) error {
	var data SchoolPasswordRequest
	if err := ctx.Bind(&data); err != nil {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidJSON})
	}
	if _, ok := core.NormalizeSchoolCode(data.SchoolCode); !ok {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"error": core.SchoolCodeText})
	}

	switch data.Action {
	case actionSet:
		return api.set(ctx, data)
	case actionVerify:
		return api.verify(ctx, data)
	case actionReset:
		return api.reset(ctx, data)
	}
	return ctx.JSON(http.StatusBadRequest, echo.Map{"error": msgUnknownAction})
}

func (api *secretApi) set(ctx echo.Context, data SchoolPasswordRequest) error {
	err := api.svc.SetSecret(ctx.Request().Context(), data.SchoolCode, data.Password, core.Role(data.Role))
	switch {
	case err == nil:
		return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
	case errors.Is(err, secret.ErrManagerOnly):
		return ctx.JSON(http.StatusForbidden, echo.Map{"error": msgManagerOnly})
	case errors.Is(err, secret.ErrBadFormat):
		return ctx.JSON(http.StatusBadRequest, echo.Map{"error": core.PinText})
	case errors.Is(err, secret.ErrAlreadySet):
		return ctx.JSON(http.StatusConflict, echo.Map{"error": msgAlreadySet})
	}
	return errors.Wrap(err, "setting school secret")
}

func (api *secretApi) verify(ctx echo.Context, data SchoolPasswordRequest) error {
	valid, err := api.svc.VerifySecret(ctx.Request().Context(), data.SchoolCode, data.Password)
	if err != nil {
		if errors.Is(err, secret.ErrBadFormat) {
			return ctx.JSON(http.StatusBadRequest, echo.Map{"valid": false, "error": core.PinText})
		}
		return errors.Wrap(err, "verifying school secret")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"valid": valid})
}

func (api *secretApi) reset(ctx echo.Context, data SchoolPasswordRequest) error {
	if !api.operator.Configured() {
		return ctx.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": msgOperatorNotConfigured})
	}

	err := api.svc.ResetSecret(ctx.Request().Context(), data.SchoolCode, data.AdminName, data.AdminCode)
	switch {
	case err == nil:
		return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
	case errors.Is(err, secret.ErrUnauthorized):
		return ctx.JSON(http.StatusForbidden, echo.Map{"success": false, "error": msgOperatorAuthFailed})
	}
	return errors.Wrap(err, "resetting school secret")
}

func (api *secretApi) change(ctx echo.Context) error {
	var data ChangePasswordRequest
	if err := ctx.Bind(&data); err != nil {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidJSON})
	}
	if _, ok := core.NormalizeSchoolCode(data.SchoolCode); !ok || data.CurrentPassword == "" || data.NewPassword == "" {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"error": msgChangeFieldsRequired})
	}

	err := api.svc.ChangeSecret(ctx.Request().Context(), data.SchoolCode, data.CurrentPassword, data.NewPassword)
	switch {
	case err == nil:
		return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
	case errors.Is(err, secret.ErrBadFormat):
		return ctx.JSON(http.StatusBadRequest, echo.Map{"error": core.PinText})
	case errors.Is(err, secret.ErrNotFound):
		return ctx.JSON(http.StatusNotFound, echo.Map{"error": msgSecretNotSet})
	case errors.Is(err, secret.ErrCurrentMismatch):
		return ctx.JSON(http.StatusOK, echo.Map{"success": false, "error": msgCurrentMismatch})
	}
	return errors.Wrap(err, "changing school secret")
}
