package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/edusurvey/core"
	"github.com/trezcool/edusurvey/core/access"
)

const (
	tokenContextKey = "workspaceToken"
	tokenAudience   = "workspace"
)

// Claims represents the workspace entry transmitted via a JWT. The subject is the school code.
type Claims struct {
	jwt.StandardClaims
	SchoolName string    `json:"school_name,omitempty"`
	Role       core.Role `json:"role,omitempty"`
}

var errTokenAudience = errors.New("token is not meant for the workspace")

// Valid also rejects tokens issued for another audience.
func (c Claims) Valid() error {
	if err := c.StandardClaims.Valid(); err != nil {
		return err
	}
	if !c.VerifyAudience(tokenAudience, true) {
		return errTokenAudience
	}
	return nil
}

func (c Claims) SchoolCode() string {
	return c.Subject
}

func (c Claims) Principal() core.Principal {
	return core.Principal{SchoolCode: c.Subject, SchoolName: c.SchoolName, Role: c.Role}
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.Server.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		Claims:        new(Claims),
	}
}

// NewClaims builds the claims of a workspace entry.
func NewClaims(conf *core.Config, entry access.Entry) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   entry.SchoolCode,
			Audience:  tokenAudience,
			ExpiresAt: now.Add(conf.Server.TokenExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		SchoolName: entry.SchoolName,
		Role:       entry.Role,
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString([]byte(conf.Server.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}
