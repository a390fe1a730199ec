package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"

	"storefront/apperr"
	"storefront/utils"
)

// Claims carried in the bearer token.
type Claims struct {
	Username string `json:"username"`
	UserID   string `json:"userId"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type contextKey string

const actorKey contextKey = "actor"

// Auth verifies bearer tokens. The secret is injected at startup rather than
// read from a package global.
type Auth struct {
	Secret []byte
}

func NewAuth(secret []byte) *Auth {
	return &Auth{Secret: secret}
}

// Authenticate rejects requests without a valid bearer token and stores the
// actor identity in the request context.
func (a *Auth) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := a.parseBearer(r)
		if err != nil {
			utils.SendError(w, err)
			return
		}
		actor := Actor{UserID: claims.UserID, Username: claims.Username, Role: claims.Role}
		next(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)), ps)
	}
}

// RequireAdmin additionally requires the caller's role to be admin. It must
// wrap handlers inside Authenticate's chain, i.e. Authenticate(RequireAdmin(h)).
func (a *Auth) RequireAdmin(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		actor, ok := ActorFrom(r.Context())
		if !ok {
			utils.SendError(w, apperr.New(apperr.Unauthenticated, "authentication required"))
			return
		}
		if !actor.IsAdmin() {
			utils.SendError(w, apperr.New(apperr.Forbidden, "admin role required"))
			return
		}
		next(w, r, ps)
	}
}

func (a *Auth) parseBearer(r *http.Request) (*Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, apperr.New(apperr.Unauthenticated, "missing token")
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, apperr.New(apperr.Unauthenticated, "invalid token format")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(t *jwt.Token) (any, error) {
		return a.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.New(apperr.Unauthenticated, "invalid token")
	}
	return claims, nil
}

// IssueToken signs an access token for the given identity.
func (a *Auth) IssueToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.Secret)
}

// ActorFrom returns the authenticated caller stored by Authenticate.
func ActorFrom(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok
}
