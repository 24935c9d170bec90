package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ironcraft/directory"
	"ironcraft/models"
)

type contextKey string

const ContractorContextKey contextKey = "contractor"

type Claims struct {
	ContractorID string           `json:"contractor_id"`
	Email        string           `json:"email"`
	Privilege    models.Privilege `json:"privilege"`
	jwt.RegisteredClaims
}

var jwtSecret []byte

func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

func GenerateToken(c *models.Contractor, expiration time.Duration) (string, error) {
	claims := &Claims{
		ContractorID: c.ID,
		Email:        c.Email,
		Privilege:    c.Privilege,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}

// Auth resolves the authenticated contractor for each request.
type Auth struct {
	dir *directory.Service
}

func NewAuth(dir *directory.Service) *Auth {
	return &Auth{dir: dir}
}

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Try the cookie first, then the Authorization header.
		var tokenString string
		if cookie, err := r.Cookie("token"); err == nil {
			tokenString = cookie.Value
		}
		if tokenString == "" {
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) == 2 && parts[0] == "Bearer" {
					tokenString = parts[1]
				}
			}
		}

		if tokenString == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		claims, err := ValidateToken(tokenString)
		if err != nil {
			http.SetCookie(w, &http.Cookie{
				Name:     "token",
				Value:    "",
				Path:     "/",
				MaxAge:   -1,
				HttpOnly: true,
			})
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		contractor, err := a.dir.GetContractor(r.Context(), claims.ContractorID)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ContractorContextKey, contractor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequirePrivilege(privileges ...models.Privilege) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			contractor := ContractorFromContext(r.Context())
			if contractor == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			for _, p := range privileges {
				if contractor.Privilege == p {
					next.ServeHTTP(w, r)
					return
				}
			}

			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
}

func ContractorFromContext(ctx context.Context) *models.Contractor {
	contractor, ok := ctx.Value(ContractorContextKey).(*models.Contractor)
	if !ok {
		return nil
	}
	return contractor
}
