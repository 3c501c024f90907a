package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/marketplace/pkg/identity"
	"github.com/yashrajoria/marketplace/services/common/auth"
	apperrors "github.com/yashrajoria/marketplace/services/common/errors"
	"github.com/yashrajoria/marketplace/services/wishlist-service/models"
	"github.com/yashrajoria/marketplace/services/wishlist-service/services"
)

type WishlistController struct {
	service services.WishlistService
}

func NewWishlistController(service services.WishlistService) *WishlistController {
	return &WishlistController{service: service}
}

// GetWishlist handles GET /wishlist/:role
func (ctrl *WishlistController) GetWishlist(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}

	items, svcErr := ctrl.service.List(c.Request.Context(), owner)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, models.ListResponse{Items: items})
}

// AddItem handles POST /wishlist/:role
func (ctrl *WishlistController) AddItem(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}

	var req models.AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}

	items, svcErr := ctrl.service.Add(c.Request.Context(), owner, req.ProductID)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, models.ListResponse{Items: items})
}

// RemoveItem handles DELETE /wishlist/:role/:product_id
func (ctrl *WishlistController) RemoveItem(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}

	items, svcErr := ctrl.service.Remove(c.Request.Context(), owner, c.Param("product_id"))
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, models.ListResponse{Items: items})
}

// ownerFrom checks the :role segment against the verified token. A user
// token can never reach a buyer's list or the other way round.
func ownerFrom(c *gin.Context) (models.Owner, bool) {
	kind, err := identity.ParseRole(c.Param("role"))
	if err != nil {
		apperrors.Respond(c, apperrors.ErrUnknownRole)
		return models.Owner{}, false
	}

	p, ok := auth.PrincipalFrom(c)
	if !ok {
		apperrors.Respond(c, apperrors.ErrUnauthorized)
		return models.Owner{}, false
	}
	if p.Role != kind.String() {
		apperrors.Respond(c, apperrors.ErrRoleMismatch)
		return models.Owner{}, false
	}
	return models.Owner{Role: kind.String(), ID: p.ID}, true
}
