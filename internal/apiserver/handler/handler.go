package handler

import (
	"encoding/json"
	"errors"

	"github.com/amoylab/sdctrack/internal/apiserver/middleware"
	"github.com/amoylab/sdctrack/internal/common/errorx"
	"github.com/amoylab/sdctrack/internal/entity"
	"github.com/amoylab/sdctrack/internal/i18n"
	"github.com/amoylab/sdctrack/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Handler serves the admin console API
type Handler struct {
	cols    *store.Collections
	resp    *i18n.Responder
	logger  *zap.Logger
	enforce bool
}

// NewHandler creates a handler. With enforce off, reference data and
// tracking mutations are not gated server side.
func NewHandler(cols *store.Collections, resp *i18n.Responder, logger *zap.Logger, enforce bool) *Handler {
	return &Handler{
		cols:    cols,
		resp:    resp,
		logger:  logger.Named("handler"),
		enforce: enforce,
	}
}

// fail maps store errors onto API errors and writes the response
func (h *Handler) fail(c *gin.Context, err error, notFound *errorx.APIError) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.resp.Error(c, notFound)
	case errors.Is(err, store.ErrInvalidPatch):
		h.resp.Error(c, errorx.ErrInvalidBody.Wrap(err))
	default:
		h.resp.Error(c, err)
	}
}

// readObject returns the request body if it is a JSON object
func (h *Handler) readObject(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil {
		h.resp.Error(c, errorx.ErrInvalidBody.Wrap(err))
		return nil, false
	}
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		h.resp.Error(c, errorx.ErrInvalidBody)
		return nil, false
	}
	return body, true
}

// authorize returns the caller and whether it may proceed. It writes the
// error response when it may not. Anonymous callers are allowed through
// only when enforcement is off.
func (h *Handler) authorize(c *gin.Context, min entity.Role) (entity.User, bool) {
	caller, ok := middleware.Caller(c)
	if !h.enforce {
		return caller, true
	}
	if !ok {
		h.resp.Error(c, errorx.ErrUnauthorized)
		return caller, false
	}
	if !caller.Role.AtLeast(min) {
		h.resp.Error(c, errorx.ErrForbidden)
		return caller, false
	}
	return caller, true
}

// seed runs EnsureSeed for the given collections before the route handler
func (h *Handler) seed(seeders ...store.Seeder) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, s := range seeders {
			if _, err := s.EnsureSeed(c.Request.Context()); err != nil {
				h.resp.Error(c, err)
				return
			}
		}
		c.Next()
	}
}

// without drops the named top-level members from a JSON object body
func without(body []byte, keys ...string) ([]byte, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	for _, k := range keys {
		delete(fields, k)
	}
	return json.Marshal(fields)
}

func items[T any](list []T) gin.H {
	if list == nil {
		list = []T{}
	}
	return gin.H{"items": list}
}
