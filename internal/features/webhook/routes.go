package webhook

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches webhook endpoints to the engine root, outside the
// API group. Only configured providers get an endpoint.
func RegisterRoutes(router *gin.Engine, handler *Handler) {
	webhooks := router.Group("/webhooks")

	if handler.clerkVerifier != nil {
		webhooks.POST("/clerk", handler.Clerk)
	}
	if handler.stripe != nil {
		webhooks.POST("/stripe", handler.Stripe)
	}
	if handler.mercadopago != nil {
		webhooks.POST("/mercadopago", handler.MercadoPago)
	}
}
