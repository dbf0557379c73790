package handler

import (
	"github.com/amoylab/sdctrack/internal/apiserver/middleware"
	"github.com/amoylab/sdctrack/internal/common/errorx"
	"github.com/amoylab/sdctrack/internal/entity"
	"github.com/amoylab/sdctrack/internal/store"
	"github.com/gin-gonic/gin"
)

// registerCRUD mounts list, create, get, update and delete for one
// reference data collection. Mutations need Level 2 when enforced.
func registerCRUD[T entity.Record](h *Handler, api *gin.RouterGroup, col *store.Collection[T]) {
	g := api.Group("/"+col.Name(), h.seed(col))
	gate := middleware.RequireLevel(entity.RoleLevel2, h.enforce, h.resp)

	g.GET("", func(c *gin.Context) {
		list, err := col.List(c.Request.Context())
		if err != nil {
			h.resp.Error(c, err)
			return
		}
		h.resp.OK(c, items(list))
	})

	g.POST("", gate, func(c *gin.Context) {
		body, ok := h.readObject(c)
		if !ok {
			return
		}
		rec, err := col.New(body)
		if err != nil {
			h.fail(c, err, errorx.ErrEntityNotFound)
			return
		}
		created, err := col.Create(c.Request.Context(), rec)
		if err != nil {
			h.fail(c, err, errorx.ErrEntityNotFound)
			return
		}
		h.resp.OK(c, created)
	})

	g.GET("/:id", func(c *gin.Context) {
		rec, found, err := col.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			h.resp.Error(c, err)
			return
		}
		if !found {
			h.resp.Error(c, errorx.ErrEntityNotFound)
			return
		}
		h.resp.OK(c, rec)
	})

	g.PUT("/:id", gate, func(c *gin.Context) {
		body, ok := h.readObject(c)
		if !ok {
			return
		}
		updated, err := col.Patch(c.Request.Context(), c.Param("id"), body)
		if err != nil {
			h.fail(c, err, errorx.ErrEntityNotFound)
			return
		}
		h.resp.OK(c, updated)
	})

	g.DELETE("/:id", gate, func(c *gin.Context) {
		id := c.Param("id")
		deleted, err := col.Delete(c.Request.Context(), id)
		if err != nil {
			h.resp.Error(c, err)
			return
		}
		if !deleted {
			h.resp.Error(c, errorx.ErrEntityNotFound)
			return
		}
		h.resp.OK(c, gin.H{"id": id, "deleted": true})
	})
}
