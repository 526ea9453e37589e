package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-cloudlet-service/config"
	"github.com/tnqbao/gau-cloudlet-service/infra"
	"github.com/tnqbao/gau-cloudlet-service/service"
	"github.com/tnqbao/gau-cloudlet-service/utils"
)

// IdentityMiddleware resolves the caller from the access token and stores it in the
// request context. It never aborts: a missing or rejected token leaves the request
// anonymous and the service decides what anonymous callers may do.
func IdentityMiddleware(authService *infra.AuthorizationService, logger *infra.LoggerClient, config *config.EnvConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		tokenStr := utils.ExtractToken(c)
		if tokenStr == "" {
			c.Next()
			return
		}

		userID, err := utils.UserIDFromToken(tokenStr, config)
		if err != nil {
			logger.WarningWithContextf(ctx, "[Identity] Rejected token: %v", err)
			c.Next()
			return
		}

		if authService != nil {
			if err := authService.CheckAccessToken(ctx, tokenStr); err != nil {
				logger.WarningWithContextf(ctx, "[Identity] Token rejected by authorization service: %v", err)
				c.Next()
				return
			}
		}

		c.Request = c.Request.WithContext(service.WithCaller(ctx, userID))
		c.Next()
	}
}
