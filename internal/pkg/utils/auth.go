package utils

import (
	"fmt"

	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/constants"
	"github.com/golang-jwt/jwt"
	"github.com/spf13/viper"
)

// AuthTokenWrapper is the claim set carried by admin tokens. The Secret is
// compared against the configured admin secret by the admin middleware.
type AuthTokenWrapper struct {
	Secret string `json:"secret"`
	jwt.StandardClaims
}

func GenerateAuthToken(wrapper *AuthTokenWrapper) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, wrapper)

	signed, err := token.SignedString([]byte(viper.GetString(constants.ViperSigningKey)))
	if err != nil {
		return "", fmt.Errorf("token.SignedString: %w", err)
	}

	return signed, nil
}

func ParseAuthToken(raw string) (*AuthTokenWrapper, error) {
	wrapper := &AuthTokenWrapper{}

	_, err := jwt.ParseWithClaims(raw, wrapper, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(viper.GetString(constants.ViperSigningKey)), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", constants.ErrUnauthorized, err)
	}

	return wrapper, nil
}
