package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/dmitrijs2005/feedbackportal/internal/common"
	"github.com/dmitrijs2005/feedbackportal/internal/server/models"
)

// UserCache caches principals by user id between requests.
type UserCache interface {
	Get(key string) (*models.User, bool)
	SetWithTTL(key string, value *models.User, cost int64, ttl time.Duration) bool
	Del(key string)
}

// NewUserCache builds the ristretto cache used for principals.
func NewUserCache() (*ristretto.Cache[string, *models.User], error) {
	return ristretto.NewCache(&ristretto.Config[string, *models.User]{
		NumCounters: 1e4,
		MaxCost:     1 << 12,
		BufferItems: 64,
	})
}

var errMissingToken = common.Detail(common.ErrUnauthorized, "Not authenticated")

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get(common.AuthorizationHeader)
	if len(h) <= len(common.BearerPrefix) || !strings.EqualFold(h[:len(common.BearerPrefix)], common.BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(h[len(common.BearerPrefix):])
	return token, token != ""
}

// authenticate resolves the bearer token into a *models.User stored on the
// request context. The signature is always checked; only the user lookup is
// cached.
func (h *handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			h.writeError(w, r, errMissingToken)
			return
		}

		userID, err := h.svc.Users.VerifyToken(token)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		user, err := h.principal(r.Context(), userID)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

func (h *handler) principal(ctx context.Context, userID string) (*models.User, error) {
	if h.cache != nil {
		if u, ok := h.cache.Get(userID); ok {
			return u, nil
		}
	}
	u, err := h.svc.Users.Principal(ctx, userID)
	if err != nil {
		return nil, err
	}
	if h.cache != nil && h.cacheTTL > 0 {
		h.cache.SetWithTTL(userID, u, 1, h.cacheTTL)
	}
	return u, nil
}

func (h *handler) forget(userID string) {
	if h.cache != nil {
		h.cache.Del(userID)
	}
}

// caller returns the authenticated user. Only valid behind authenticate.
func caller(r *http.Request) *models.User {
	u, _ := r.Context().Value(userKey).(*models.User)
	return u
}
