package routes

import (
	"net/http"

	"payment-callback-service/controllers"
	"payment-callback-service/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, cc *controllers.CallbackController, ac *controllers.AdminController, jwtSecret []byte) {
	// Gateway webhook (no auth; the handler enforces POST itself)
	r.Any("/midtrans/callback", cc.HandleMidtransCallback)

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtSecret))
	admin.POST("/roles", ac.SetAdminRole)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
