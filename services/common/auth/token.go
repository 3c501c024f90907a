package auth

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	apperrors "github.com/yashrajoria/marketplace/services/common/errors"
)

// Context keys set by Middleware.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextToken  = "token"
)

// Principal is the verified caller of a request.
type Principal struct {
	ID   string
	Role string
}

// Verifier checks HMAC-signed access tokens.
type Verifier struct {
	secret       []byte
	expectedType string
}

// NewVerifier returns a verifier for secret. When expectedType is non-empty
// the "typ" claim must equal it.
func NewVerifier(secret, expectedType string) *Verifier {
	return &Verifier{secret: []byte(strings.TrimSpace(secret)), expectedType: expectedType}
}

// ParseAndValidateToken parses a JWT and returns its claims.
func (v *Verifier) ParseAndValidateToken(tokenStr string) (jwt.MapClaims, error) {
	if len(v.secret) == 0 {
		return nil, fmt.Errorf("JWT secret not configured")
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	if v.expectedType != "" {
		if typ, ok := claims["typ"].(string); !ok || typ != v.expectedType {
			return nil, fmt.Errorf("invalid token type")
		}
	}
	return claims, nil
}

// Verify returns the principal of a valid token. The id comes from the
// user_id claim, falling back to sub.
func (v *Verifier) Verify(tokenStr string) (Principal, error) {
	claims, err := v.ParseAndValidateToken(tokenStr)
	if err != nil {
		return Principal{}, err
	}
	id, _ := claims["user_id"].(string)
	if id == "" {
		id, _ = claims["sub"].(string)
	}
	role, _ := claims["role"].(string)
	if id == "" || role == "" {
		return Principal{}, fmt.Errorf("token is missing subject or role")
	}
	return Principal{ID: id, Role: role}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(header[len("Bearer "):])
	return tok, tok != ""
}

// Middleware rejects requests without a valid bearer token and stores the
// principal under ContextUserID and ContextRole.
func Middleware(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apperrors.Respond(c, apperrors.ErrMissingToken)
			return
		}
		tok, ok := BearerToken(header)
		if !ok {
			apperrors.Respond(c, apperrors.ErrInvalidToken)
			return
		}
		p, err := v.Verify(tok)
		if err != nil {
			apperrors.Respond(c, apperrors.Wrap(apperrors.ErrInvalidToken, err))
			return
		}

		c.Set(ContextUserID, p.ID)
		c.Set(ContextRole, p.Role)
		c.Set(ContextToken, tok)
		c.Next()
	}
}

// PrincipalFrom returns the principal stored by Middleware.
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	id := c.GetString(ContextUserID)
	role := c.GetString(ContextRole)
	if id == "" || role == "" {
		return Principal{}, false
	}
	return Principal{ID: id, Role: role}, true
}
