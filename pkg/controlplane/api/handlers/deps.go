package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nfcgate/relay/pkg/controlplane/store"
)

// Deps bundles everything the Admin API handlers need. A single Deps value
// is shared across every handler constructor.
type Deps struct {
	Store     *store.GORMStore
	TokenTTL  time.Duration
	Validate  *validator.Validate
	StartTime time.Time

	// DecoderAvailable reports whether a real APDU decoder (as opposed to
	// apdu.NoopDecoder) was wired in, surfaced by GET /api/health.
	DecoderAvailable bool
	RedactionMode    string

	RetentionDBDays       int
	RetentionJSONLDays    int
	RetentionSweepSeconds int
}

// NewDeps builds a Deps with a fresh validator instance.
func NewDeps(st *store.GORMStore, tokenTTL time.Duration) *Deps {
	return &Deps{
		Store:     st,
		TokenTTL:  tokenTTL,
		Validate:  validator.New(),
		StartTime: time.Now().UTC(),
	}
}

type ctxKey int

const userCtxKey ctxKey = iota

// userFromContext returns the authenticated admin user set by RequireToken.
func userFromContext(ctx context.Context) (*store.AdminUser, bool) {
	u, ok := ctx.Value(userCtxKey).(*store.AdminUser)
	return u, ok
}

// bearerToken extracts the bearer token from the request: X-NFCGate-Token
// first, then Authorization: Bearer.
func bearerToken(r *http.Request) string {
	if tok := r.Header.Get("X-NFCGate-Token"); tok != "" {
		return tok
	}
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if strings.HasPrefix(auth, prefix) {
		return strings.TrimPrefix(auth, prefix)
	}
	return ""
}

// RequireToken is middleware enforcing bearer-token authentication. On
// success, the resolved admin user is attached to the request context.
func (d *Deps) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if d.Store == nil {
			writeError(w, ErrLogDBNotConfigured)
			return
		}

		token := bearerToken(r)
		if token == "" {
			writeError(w, ErrMissingToken)
			return
		}

		lookup, err := d.Store.LookupAdminToken(r.Context(), token, time.Now().UTC().Unix())
		if err != nil || lookup.User.Disabled {
			writeError(w, ErrInvalidToken)
			return
		}

		ctx := context.WithValue(r.Context(), userCtxKey, &lookup.User)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
