package api

import (
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/constants"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/spf13/viper"
)

// AdminMiddleware guards the refresh and unlock endpoints: the request must
// carry a signed token whose secret matches the configured one.
func (svc *APIService) AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		cookie, err := ctx.Cookie(constants.CookieKeySecretToken)
		if err != nil {
			return constants.ErrUnauthorized
		}

		token, err := utils.ParseAuthToken(cookie.Value)
		if err != nil {
			return err
		}

		if token.Secret != viper.GetString(constants.ViperSecretKey) {
			return constants.ErrUnauthorized
		}

		return next(ctx)
	}
}
