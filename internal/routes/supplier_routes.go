package routes

import (
	"scar_tracker/internal/controllers"
	"scar_tracker/internal/middleware"
	"scar_tracker/internal/models"

	"github.com/gin-gonic/gin"
)

func SupplierRoutes(r *gin.Engine) {
	supplier := r.Group("/supplier")
	supplier.Use(middleware.RequireAuthWithRole(models.RoleSupplier))
	{
		supplier.GET("/scars", controllers.ListScars)
		supplier.GET("/scars/stats", controllers.ScarStats)
		supplier.GET("/scars/:id", controllers.GetScar)
		supplier.PATCH("/scars/:id/response", controllers.UpdateSupplierResponse)
		supplier.POST("/scars/:id/submit", controllers.SubmitScar)
		supplier.GET("/scars/:id/activity", controllers.ScarActivity)
	}
}
