package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/marketplace/api-gateway/middlewares"
	"github.com/yashrajoria/marketplace/api-gateway/proxy"
	"github.com/yashrajoria/marketplace/services/common/auth"
)

// Upstreams are the base URLs of the services behind the gateway.
type Upstreams struct {
	Catalog  string
	Wishlist string
}

func RegisterAllRoutes(r *gin.Engine, fwd *proxy.Forwarder, verifier *auth.Verifier, up Upstreams) {
	// ===== PUBLIC ROUTES =====
	public := r.Group("/", middlewares.OptionalAuth(verifier))

	categories := fwd.To(up.Catalog + "/categories")
	public.GET("/categories/*any", categories)

	// ===== PROTECTED ROUTES (JWT Required) =====
	protected := r.Group("/", auth.Middleware(verifier))

	wishlist := fwd.To(up.Wishlist + "/wishlist")
	protected.GET("/wishlist/*any", wishlist)
	protected.POST("/wishlist/*any", wishlist)
	protected.DELETE("/wishlist/*any", wishlist)
}
