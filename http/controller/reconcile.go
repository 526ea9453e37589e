package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-cloudlet-service/service"
	"github.com/tnqbao/gau-cloudlet-service/utils"
)

// RequestReconcile queues a sweep of the caller's storage prefix for the consumer.
func (ctrl *Controller) RequestReconcile(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := service.CallerFromContext(ctx)
	if !ok {
		utils.JSON401(c, "Unauthorized")
		return
	}

	if ctrl.Reconcile == nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Reconcile] No message broker configured")
		utils.JSON503(c, gin.H{"error": "Reconciliation is unavailable"})
		return
	}

	if err := ctrl.Reconcile.PublishReconcileRequest(ctx, userID); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Reconcile] Failed to queue reconciliation for user_id: %s", userID)
		utils.JSON500(c, "Failed to queue reconciliation")
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Reconcile] Queued reconciliation for user_id: %s", userID)
	utils.JSON202(c, gin.H{"message": "Reconciliation queued"})
}
