package middleware

import (
	"github.com/amoylab/sdctrack/internal/entity"
	"github.com/amoylab/sdctrack/internal/i18n"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SuperAdminGuard recreates the super-admin account before every request
// if it has gone missing from the store
func SuperAdminGuard(users UserStore, admin entity.User, logger *zap.Logger, resp *i18n.Responder) gin.HandlerFunc {
	logger = logger.Named("superadmin")
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		_, found, err := users.Get(ctx, admin.ID)
		if err != nil {
			resp.Error(c, err)
			return
		}
		if !found {
			if err := users.Put(ctx, admin); err != nil {
				resp.Error(c, err)
				return
			}
			logger.Warn("super admin was missing and has been recreated", zap.String("id", admin.ID))
		}
		c.Next()
	}
}
