package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/marketplace/services/wishlist-service/controllers"
)

// RegisterWishlistRoutes mounts the role-scoped wishlist endpoints behind
// authMiddleware.
func RegisterWishlistRoutes(r *gin.Engine, ctrl *controllers.WishlistController, authMiddleware gin.HandlerFunc) {
	wishlist := r.Group("/wishlist/:role", authMiddleware)
	{
		wishlist.GET("", ctrl.GetWishlist)
		wishlist.POST("", ctrl.AddItem)
		wishlist.DELETE("/:product_id", ctrl.RemoveItem)
	}
}
