package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-cloudlet-service/service"
	"github.com/tnqbao/gau-cloudlet-service/utils"
)

// respondServiceError maps a hierarchy service error onto the HTTP status contract.
func (ctrl *Controller) respondServiceError(c *gin.Context, tag string, err error) {
	ctx := c.Request.Context()

	var accessErr *service.AccessError
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		utils.JSON401(c, "Unauthorized")
	case errors.As(err, &accessErr):
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[%s] %v (%v)", tag, accessErr, accessErr.Kind)
		utils.JSON404(c, accessErr.Error())
	case errors.Is(err, service.ErrInvalidArgument):
		utils.JSON400(c, err.Error())
	case errors.Is(err, service.ErrStorageUploadUnverified):
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[%s] %v", tag, err)
		utils.JSON409(c, "Uploaded object not found in storage")
	case errors.Is(err, service.ErrStorageDeleteFailed):
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[%s] Storage delete failed", tag)
		utils.JSON502(c, "Failed to delete object from storage")
	default:
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[%s] Unexpected error", tag)
		utils.JSON500(c, "Internal server error")
	}
}
