package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-cloudlet-service/http/controller/dto"
	"github.com/tnqbao/gau-cloudlet-service/utils"
)

func (ctrl *Controller) IssueUploadURL(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.UploadURLRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Files] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	grant, err := ctrl.Hierarchy.IssueUploadGrant(ctx, req.Name, req.ContentType)
	if err != nil {
		ctrl.respondServiceError(c, "Files", err)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Files] Issued upload URL for storage_id: %s", grant.StorageID)
	utils.JSON200(c, grant)
}

func (ctrl *Controller) RegisterFile(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegisterFileRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Files] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	fileID, err := ctrl.Hierarchy.RegisterFile(ctx, req.Name, req.Size, req.StorageID, req.ParentID)
	if err != nil {
		ctrl.respondServiceError(c, "Files", err)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Files] Registered file %s (storage_id: %s)", fileID, req.StorageID)
	utils.JSON201(c, gin.H{"file_id": fileID})
}

func (ctrl *Controller) DeleteFile(c *gin.Context) {
	ctx := c.Request.Context()

	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid file ID")
		return
	}

	if err := ctrl.Hierarchy.DeleteFile(ctx, fileID); err != nil {
		ctrl.respondServiceError(c, "Files", err)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Files] Deleted file %s", fileID)
	utils.JSON200(c, gin.H{"message": "File deleted successfully"})
}
