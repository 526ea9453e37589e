package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-cloudlet-service/http/controller"
	middlewares "github.com/tnqbao/gau-cloudlet-service/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.CORSMiddleware)
	r.GET("/health", ctrl.HealthCheck)

	apiRoutes := r.Group("/api/v1/cloudlet")
	{
		apiRoutes.Use(middles.IdentityMiddleware)

		fileRoutes := apiRoutes.Group("/files")
		{
			fileRoutes.POST("/upload-url", ctrl.IssueUploadURL)
			fileRoutes.POST("", ctrl.RegisterFile)
			fileRoutes.DELETE("/:id", ctrl.DeleteFile)
		}

		folderRoutes := apiRoutes.Group("/folders")
		{
			folderRoutes.POST("", ctrl.CreateFolder)
			folderRoutes.DELETE("/:id", ctrl.DeleteFolder)
		}

		apiRoutes.GET("/items", ctrl.ListItems)
		apiRoutes.POST("/storage/reconcile", ctrl.RequestReconcile)
	}
	return r
}
