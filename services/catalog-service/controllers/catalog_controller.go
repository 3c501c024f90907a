package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/yashrajoria/marketplace/services/common/errors"
	"github.com/yashrajoria/marketplace/services/catalog-service/models"
	"github.com/yashrajoria/marketplace/services/catalog-service/services"
)

type CatalogController struct {
	service  services.CatalogService
	validate *validator.Validate
}

func NewCatalogController(service services.CatalogService) *CatalogController {
	return &CatalogController{service: service, validate: validator.New()}
}

// GetCategory handles GET /categories/:slug
func (ctrl *CatalogController) GetCategory(c *gin.Context) {
	tree, svcErr := ctrl.service.Tree(c.Request.Context(), c.Param("slug"))
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, models.TreeResponse{
		Category:      tree.Category,
		Subcategories: tree.Subcategories,
		Products:      tree.Products,
	})
}

// GetProducts handles GET /categories/:slug/products
func (ctrl *CatalogController) GetProducts(c *gin.Context) {
	var q models.FilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrInvalidFilter, err))
		return
	}
	if err := ctrl.validate.Struct(&q); err != nil {
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrInvalidFilter, err))
		return
	}

	resp, svcErr := ctrl.service.Browse(c.Request.Context(), c.Param("slug"), q)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetFacets handles GET /categories/:slug/facets
func (ctrl *CatalogController) GetFacets(c *gin.Context) {
	resp, svcErr := ctrl.service.Facets(c.Request.Context(), c.Param("slug"), c.Query("brand_search"))
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, resp)
}
