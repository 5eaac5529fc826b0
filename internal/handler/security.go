package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/auth"
)

// identityKey is the context key for the authenticated identity.
type identityKey struct{}

// identityFrom extracts the authenticated identity from the context.
func identityFrom(ctx context.Context) (auth.Identity, bool) {
	ident, ok := ctx.Value(identityKey{}).(auth.Identity)
	return ident, ok
}

// Security authenticates requests via HMAC-SHA256 hashed API keys presented
// in the api_key header. Authentication is optional at this layer; individual
// routes decide whether an identity (or a staff identity) is required.
type Security struct {
	apikeys auth.Repository
	pepper  []byte
}

// NewSecurity creates a Security with the given API key repository and HMAC
// pepper.
func NewSecurity(apikeys auth.Repository, pepper []byte) *Security {
	return &Security{apikeys: apikeys, pepper: pepper}
}

// Authenticate resolves the identity behind an API key by computing its
// HMAC-SHA256, looking up the stored record, and performing a constant-time
// comparison to prevent timing attacks.
func (s *Security) Authenticate(ctx context.Context, apiKey string) (auth.Identity, bool) {
	mac := hmac.New(sha256.New, s.pepper)
	mac.Write([]byte(apiKey))
	hash := mac.Sum(nil)

	info, err := s.apikeys.FindByHash(ctx, hex.EncodeToString(hash))
	if err != nil {
		return auth.Identity{}, false
	}

	// Constant-time comparison guards against timing side-channels even
	// though the lookup already succeeded: the stored hash could differ from
	// what we computed if the repository returns a stale/wrong row.
	storedBytes, err := hex.DecodeString(info.KeyHash)
	if err != nil {
		return auth.Identity{}, false
	}
	if subtle.ConstantTimeCompare(hash, storedBytes) != 1 {
		return auth.Identity{}, false
	}

	return auth.Identity{UserID: info.UserID, Name: info.Name, Role: info.Role}, true
}

// Middleware resolves the caller's identity when an api_key header is present
// and stores it in the request context. Requests without a key pass through
// unauthenticated; requests with a bad key are rejected outright.
func (s *Security) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("api_key")
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		ident, ok := s.Authenticate(r.Context(), key)
		if !ok {
			respondError(w, http.StatusUnauthorized, kindUnauthenticated, "invalid API key")
			return
		}
		ctx := context.WithValue(r.Context(), identityKey{}, ident)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireIdentity gates a handler on any authenticated identity. It writes a
// 401 and returns false when the caller is anonymous.
func requireIdentity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, kindUnauthenticated, "authentication required")
		return auth.Identity{}, false
	}
	return ident, true
}

// requireStaff gates a handler on staff privileges. Unauthenticated callers
// get 401; authenticated non-staff callers get 403, keeping the two failure
// modes distinguishable.
func requireStaff(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return auth.Identity{}, false
	}
	if !ident.IsStaff() {
		respondError(w, http.StatusForbidden, kindPermissionDenied, "staff role required")
		return auth.Identity{}, false
	}
	return ident, true
}
