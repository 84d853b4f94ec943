package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service verifies access tokens issued by the identity provider.
// FieldPay does not manage credentials; it only needs the shared
// signing secret to verify and read claims.
type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	GenerateAccessToken(actorID string, actorName string, ttl time.Duration) (token string, expiresAt int64, err error)
	GenerateSSEToken(actorID string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (actorID string, err error)
}

type JWTService struct {
	secretKey string
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		secretKey: secretKey,
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// GenerateAccessToken mints a token with the claim set FieldPay reads.
// Used by tests and local development; production tokens come from the
// identity provider with the same secret.
func (j *JWTService) GenerateAccessToken(actorID string, actorName string, ttl time.Duration) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(ttl).Unix()

	claims := map[string]interface{}{
		"actor_id":   actorID,
		"actor_name": actorName,
		"type":       "access",
		"exp":        expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// GenerateSSEToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateSSEToken(actorID string) (token string, expiresIn int, err error) {
	// SSE tokens are short-lived (5 minutes)
	expiresIn = 300
	expiresAt := time.Now().Add(5 * time.Minute).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"actor_id": actorID,
		"type":     "sse",
		"exp":      expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresIn, nil
}

// ValidateSSEToken validates an SSE token and returns the actor ID
func (j *JWTService) ValidateSSEToken(tokenString string) (actorID string, err error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "sse" {
		return "", jwt.ErrInvalidJWT()
	}

	id, ok := token.Get("actor_id")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}
	actorID, _ = id.(string)

	return actorID, nil
}
