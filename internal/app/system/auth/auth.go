// internal/app/system/auth/auth.go

// Package auth resolves a bearer credential to the caller's identity and
// injects it into the request context. Token issuance (login, refresh,
// TOTP) is an external collaborator; this package only validates.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rollcallhq/rollcall/internal/app/system/timeouts"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Classified authentication failures per the external identity contract.
var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
	ErrUserDisabled = errors.New("user disabled")
)

// Identity is what the middleware injects into r.Context(): the resolved
// caller with the fields every capability check needs.
type Identity struct {
	ID           primitive.ObjectID
	Email        string
	FullName     string
	Role         models.Role
	Faction      *models.FactionCode
	DepartmentID *primitive.ObjectID
	IsActive     bool
}

type ctxKey string

const (
	currentIdentityKey ctxKey = "currentIdentity"
	authErrKey         ctxKey = "authError"
)

// CurrentIdentity returns the caller's identity and a found flag.
func CurrentIdentity(r *http.Request) (*Identity, bool) {
	id, ok := r.Context().Value(currentIdentityKey).(*Identity)
	return id, ok
}

// WithTestIdentity injects an identity directly, bypassing token
// verification. For handler tests only.
func WithTestIdentity(r *http.Request, id *Identity) *http.Request {
	return withIdentity(r, id)
}

func withIdentity(r *http.Request, id *Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentIdentityKey, id))
}

// UserFetcher loads the current user document for a token subject. The
// fresh read is what makes deactivation take effect immediately instead
// of at token expiry.
type UserFetcher func(ctx context.Context, id primitive.ObjectID) (models.User, error)

// Verifier validates bearer tokens and resolves them to identities.
type Verifier struct {
	secret []byte
	issuer string
	fetch  UserFetcher
	log    *zap.Logger
}

// NewVerifier constructs a Verifier. fetch must return the user document
// for a subject ID or an error if no such user exists.
func NewVerifier(secret, issuer string, fetch UserFetcher, logger *zap.Logger) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer, fetch: fetch, log: logger}
}

// Resolve validates the raw token string and returns the caller identity,
// or one of the classified failures.
func (v *Verifier) Resolve(ctx context.Context, raw string) (*Identity, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithIssuer(v.issuer), jwt.WithLeeway(30*time.Second))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	uid, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	fetchCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()
	user, err := v.fetch(fetchCtx, uid)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	return &Identity{
		ID:           user.ID,
		Email:        user.Email,
		FullName:     user.FullName,
		Role:         user.Role,
		Faction:      user.Faction,
		DepartmentID: user.DepartmentID,
		IsActive:     user.IsActive,
	}, nil
}

// BearerToken extracts the token from the Authorization header, falling
// back to the "token" query parameter for EventSource clients, which
// cannot set headers.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return r.URL.Query().Get("token")
}

// LoadIdentity injects the caller identity into context when a valid
// token is presented. Requests without a token pass through anonymous;
// RequireSignedIn decides whether that is acceptable.
func (v *Verifier) LoadIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := BearerToken(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		id, err := v.Resolve(r.Context(), raw)
		if err != nil {
			v.log.Debug("identity resolution failed", zap.Error(err))
			r = r.WithContext(context.WithValue(r.Context(), authErrKey, err))
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, withIdentity(r, id))
	})
}

// RequireSignedIn rejects requests without a resolved identity with a 401
// carrying the classified failure.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentIdentity(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		msg := "authentication required"
		if err, ok := r.Context().Value(authErrKey).(error); ok {
			switch {
			case errors.Is(err, ErrTokenExpired):
				msg = "token expired"
			case errors.Is(err, ErrUserDisabled):
				msg = "account disabled"
			default:
				msg = "invalid token"
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthorized","message":"` + msg + `"}`))
	})
}
