package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edusurvey/core"
	"github.com/trezcool/edusurvey/core/access"
	"github.com/trezcool/edusurvey/core/school"
)

type accessApi struct {
	conf *core.Config
	flow *access.Flow
}

func registerAccessAPI(e *echo.Echo, conf *core.Config, dir school.Directory, secrets access.SecretGateway) {
	api := accessApi{
		conf: conf,
		flow: access.NewFlow(school.NewVerifier(dir), secrets),
	}
	e.POST("/access", api.enter)
}

// Handlers

// enter runs one pass of the access flow: identity check, then the secret step when a password is given.
// A workspace token is issued once the school is entered.
func (api *accessApi) enter(ctx echo.Context) error {
	var data AccessRequest
	if err := ctx.Bind(&data); err != nil {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidJSON})
	}
	rctx := ctx.Request().Context()

	attempt, err := api.flow.Begin(rctx, core.Role(core.CleanString(data.Role, true /* lower */)), data.SchoolName, data.SchoolCode)
	if err == nil && attempt.State == access.StateSecretChecking && data.Password != "" {
		switch attempt.Step {
		case access.StepEstablish:
			err = attempt.Establish(rctx, data.Password, data.Confirm)
		case access.StepSupply:
			err = attempt.Supply(rctx, data.Password)
		}
	}
	if err != nil {
		if errors.Is(err, school.ErrLookupFailed) {
			ctx.Logger().Errorf("%+v", errors.Wrap(err, "running access flow"))
			return ctx.JSON(http.StatusBadGateway, AccessResponse{State: string(attempt.State), Message: msgLookupFailed})
		}
		return errors.Wrap(err, "running access flow")
	}

	resp := AccessResponse{
		State:      string(attempt.State),
		Step:       string(attempt.Step),
		Reason:     string(attempt.Reason),
		Message:    accessMessage(attempt),
		SchoolName: attempt.Record.Name,
	}
	if attempt.Entry != nil {
		token, err := GenerateToken(api.conf, NewClaims(api.conf, *attempt.Entry))
		if err != nil {
			return errors.Wrap(err, "generating token")
		}
		resp.Token = token
	}
	return ctx.JSON(http.StatusOK, resp)
}
