package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edusurvey/core"
)

type adminApi struct {
	operator core.Operator
}

func registerAdminAPI(e *echo.Echo, operator core.Operator) {
	api := adminApi{operator: operator}
	e.POST("/admin-login", api.login)
}

// Handlers

func (api *adminApi) login(ctx echo.Context) error {
	if !api.operator.Configured() {
		return ctx.JSON(http.StatusInternalServerError, echo.Map{"ok": false, "error": msgOperatorNotConfigured})
	}

	var data AdminLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"ok": false, "error": msgInvalidJSON})
	}

	ok, err := api.operator.Authenticate(data.SchoolName, data.SchoolCode)
	if err != nil {
		return errors.Wrap(err, "authenticating operator")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"ok": ok})
}
