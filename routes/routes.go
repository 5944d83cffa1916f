package routes

import (
	"github.com/amrahulsaini/casebuddy-sub000/controllers"
	"github.com/amrahulsaini/casebuddy-sub000/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up the reconciler's endpoints. The webhook and the
// confirmation fallback are reachable by the gateway/storefront; everything
// else is back-office only.
func RegisterRoutes(
	r *gin.Engine,
	pc *controllers.PaymentController,
	sc *controllers.SyncController,
	oc *controllers.OrderController,
	adminToken, syncSecret string,
) {
	r.POST("/webhooks/payment", pc.HandleWebhook)
	r.POST("/payments/confirm", pc.ConfirmPayment)

	admin := r.Group("/")
	admin.Use(middleware.AdminAuth(adminToken, syncSecret))

	admin.POST("/shipments/sync", sc.SyncShipments)
	admin.GET("/orders", oc.ListOrders)
	admin.GET("/orders/:id", oc.GetOrder)
}
