package routes

import (
	"scar_tracker/internal/controllers"
	"scar_tracker/internal/middleware"
	"scar_tracker/internal/models"

	"github.com/gin-gonic/gin"
)

func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuthWithRole(models.RoleAdmin))
	{
		// User management and the approval queue
		admin.GET("/users", controllers.ListUsers)
		admin.GET("/users/pending/count", controllers.PendingUsersCount)
		admin.POST("/users", controllers.CreateAdmin)
		admin.PATCH("/users/:id", controllers.UpdateUser)
		admin.PATCH("/users/:id/approve", controllers.ApproveUser)
		admin.PATCH("/users/:id/reject", controllers.RejectUser)
		admin.PUT("/users/:id/password", controllers.ResetUserPassword)
		admin.DELETE("/users/:id", controllers.DeleteUser)

		// Vendors and contacts
		admin.POST("/vendors", controllers.CreateVendor)
		admin.GET("/vendors", controllers.ListVendors)
		admin.GET("/vendors/:id", controllers.GetVendor)
		admin.PATCH("/vendors/:id", controllers.UpdateVendor)
		admin.DELETE("/vendors/:id", controllers.DeleteVendor)
		admin.GET("/vendors/:id/contacts", controllers.ListVendorContacts)
		admin.POST("/vendors/:id/contacts", controllers.CreateVendorContact)
		admin.PATCH("/vendors/:id/contacts/:contactId", controllers.UpdateVendorContact)
		admin.DELETE("/vendors/:id/contacts/:contactId", controllers.DeleteVendorContact)

		// SCAR issuing, review and verification
		admin.POST("/scars", controllers.CreateScar)
		admin.GET("/scars", controllers.ListScars)
		admin.GET("/scars/stats", controllers.ScarStats)
		admin.GET("/scars/:id", controllers.GetScar)
		admin.PATCH("/scars/:id", controllers.UpdateScarDetails)
		admin.PATCH("/scars/:id/verification", controllers.UpdateVerification)
		admin.POST("/scars/:id/verify", controllers.VerifyScar)
		admin.GET("/scars/:id/activity", controllers.ScarActivity)
	}
}
