package controller

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-cloudlet-service/utils"
	"golang.org/x/sync/errgroup"
)

const healthCheckTimeout = 3 * time.Second

func (ctrl *Controller) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	var (
		mu       sync.Mutex
		statuses = make(map[string]string, len(ctrl.HealthChecks))
		healthy  = true
	)

	var g errgroup.Group
	for name, pinger := range ctrl.HealthChecks {
		g.Go(func() error {
			status := "ok"
			if err := pinger.Ping(ctx); err != nil {
				ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Health] %s check failed", name)
				status = err.Error()
			}

			mu.Lock()
			defer mu.Unlock()
			statuses[name] = status
			if status != "ok" {
				healthy = false
			}
			return nil
		})
	}
	_ = g.Wait()

	if !healthy {
		utils.JSON503(c, gin.H{"status": "unhealthy", "checks": statuses})
		return
	}
	utils.JSON200(c, gin.H{"status": "ok", "checks": statuses})
}
