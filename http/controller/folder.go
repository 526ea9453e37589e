package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-cloudlet-service/http/controller/dto"
	"github.com/tnqbao/gau-cloudlet-service/utils"
)

func (ctrl *Controller) CreateFolder(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateFolderRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Folders] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	folderID, err := ctrl.Hierarchy.CreateFolder(ctx, req.Name, req.ParentID)
	if err != nil {
		ctrl.respondServiceError(c, "Folders", err)
		return
	}

	utils.JSON201(c, gin.H{"folder_id": folderID})
}

// DeleteFolder removes the folder only; nested items are left in place.
func (ctrl *Controller) DeleteFolder(c *gin.Context) {
	ctx := c.Request.Context()

	folderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid folder ID")
		return
	}

	if err := ctrl.Hierarchy.DeleteFolder(ctx, folderID); err != nil {
		ctrl.respondServiceError(c, "Folders", err)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Folders] Deleted folder %s", folderID)
	utils.JSON200(c, gin.H{"message": "Folder deleted successfully"})
}

func (ctrl *Controller) ListItems(c *gin.Context) {
	ctx := c.Request.Context()

	var parentID *uuid.UUID
	if raw := c.Query("parent_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.JSON400(c, "Invalid parent_id")
			return
		}
		parentID = &id
	}

	listing, err := ctrl.Hierarchy.ListChildren(ctx, parentID)
	if err != nil {
		ctrl.respondServiceError(c, "Items", err)
		return
	}

	utils.JSON200(c, listing)
}
