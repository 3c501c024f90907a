package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/marketplace/services/catalog-service/controllers"
)

// RegisterCatalogRoutes mounts the public catalog endpoints.
func RegisterCatalogRoutes(r *gin.Engine, ctrl *controllers.CatalogController) {
	categories := r.Group("/categories")
	{
		categories.GET("/:slug", ctrl.GetCategory)
		categories.GET("/:slug/products", ctrl.GetProducts)
		categories.GET("/:slug/facets", ctrl.GetFacets)
	}
}
