package middleware

import (
	"context"
	"strings"

	"github.com/amoylab/sdctrack/internal/common/errorx"
	"github.com/amoylab/sdctrack/internal/entity"
	"github.com/amoylab/sdctrack/internal/i18n"
	"github.com/amoylab/sdctrack/pkg/trace"
	"github.com/gin-gonic/gin"
)

const (
	// HeaderUserID carries the id of the logged in user, as returned by login
	HeaderUserID = "X-User-ID"

	callerKey = "caller"
)

// UserStore is the subset of the user collection the middlewares need
type UserStore interface {
	Get(ctx context.Context, id string) (entity.User, bool, error)
	Put(ctx context.Context, u entity.User) error
}

// Identity resolves the X-User-ID header to a stored user. Requests without
// the header continue anonymously; an unknown id is rejected with 401.
func Identity(users UserStore, resp *i18n.Responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if id == "" {
			c.Next()
			return
		}

		user, found, err := users.Get(c.Request.Context(), id)
		if err != nil {
			resp.Error(c, err)
			return
		}
		if !found {
			resp.Error(c, errorx.ErrUnknownCaller.WithParam("UserID", id))
			return
		}

		trace.AnnotateCaller(c.Request.Context(), user.ID, string(user.Role))
		c.Set(callerKey, user)
		c.Next()
	}
}

// Caller returns the user resolved by Identity, if any
func Caller(c *gin.Context) (entity.User, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return entity.User{}, false
	}
	u, ok := v.(entity.User)
	return u, ok
}

// RequireLevel rejects anonymous callers with 401 and callers below min
// with 403. With enforce off it lets everything through.
func RequireLevel(min entity.Role, enforce bool, resp *i18n.Responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enforce {
			c.Next()
			return
		}
		caller, ok := Caller(c)
		if !ok {
			resp.Error(c, errorx.ErrUnauthorized)
			return
		}
		if !caller.Role.AtLeast(min) {
			resp.Error(c, errorx.ErrForbidden)
			return
		}
		c.Next()
	}
}
