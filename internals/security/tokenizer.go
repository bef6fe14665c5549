package security

import (
	"pulsewatch/config"
	"pulsewatch/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService validates access tokens issued by the identity collaborator.
type TokenService struct {
	secret string
}

func NewTokenService(authCfg *config.AuthConfig) *TokenService {
	return &TokenService{
		secret: authCfg.Secret,
	}
}

func (ts *TokenService) ValidateAccessToken(accessToken string) (*RequestClaims, error) {
	const op string = "service.token.validate_access_token"

	claims := &RequestClaims{}

	token, err := jwt.ParseWithClaims(
		accessToken,
		claims,
		func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(ts.secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)

	if err != nil || !token.Valid {
		return nil, &apperror.Error{
			Kind:    apperror.Unauthorised,
			Op:      op,
			Message: "invalid token",
		}
	}

	return claims, nil
}
