package routes

import (
	"scar_tracker/internal/controllers"
	"scar_tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

func ProfileRoutes(r *gin.Engine) {
	me := r.Group("/me")
	me.Use(middleware.RequireAuth())
	{
		me.GET("", controllers.Me)
		me.PUT("/password", controllers.ChangePassword)
	}
}
