package handler

import (
	"github.com/amoylab/sdctrack/internal/store"
	"github.com/gin-gonic/gin"
)

// countHandler reports the size of a collection's index, seeding first
func (h *Handler) countHandler(col store.Seeder) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if _, err := col.EnsureSeed(ctx); err != nil {
			h.resp.Error(c, err)
			return
		}
		n, err := col.Count(ctx)
		if err != nil {
			h.resp.Error(c, err)
			return
		}
		h.resp.OK(c, gin.H{"count": n})
	}
}

func (h *Handler) statRoutes() map[string]store.Seeder {
	return map[string]store.Seeder{
		"user-count":           h.cols.Users,
		"sponsor-count":        h.cols.Sponsors,
		"center-count":         h.cols.Centers,
		"researcher-count":     h.cols.Researchers,
		"project-code-count":   h.cols.ProjectCodes,
		"work-performed-count": h.cols.WorkPerformed,
		"sdc-tracking-count":   h.cols.SdcEntries,
	}
}
