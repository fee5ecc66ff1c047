package collection

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domaincollection "github.com/promptlab/promptlab/internal/domain/collection"
	collectionsvc "github.com/promptlab/promptlab/internal/service/collection"
	"github.com/promptlab/promptlab/internal/transport/respond"
)

func Register(rg *gin.RouterGroup, svc *collectionsvc.Service) {
	rg.GET("", listCollections(svc))
	rg.POST("", createCollection(svc))
	rg.GET("/:id", getCollection(svc))
	rg.DELETE("/:id", deleteCollection(svc))
}

type createCollectionReq struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

type listResp struct {
	Collections []domaincollection.Collection `json:"collections"`
	Total       int                           `json:"total"`
}

func listCollections(svc *collectionsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		collections, err := svc.List(c.Request.Context())
		if err != nil {
			respond.Error(c, "Collection", err)
			return
		}
		c.JSON(http.StatusOK, listResp{Collections: collections, Total: len(collections)})
	}
}

func getCollection(svc *collectionsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		col, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, "Collection", err)
			return
		}
		c.JSON(http.StatusOK, col)
	}
}

func createCollection(svc *collectionsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createCollectionReq
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Invalid(c, err)
			return
		}

		col, err := svc.Create(c.Request.Context(), req.Name, req.Description)
		if err != nil {
			respond.Error(c, "Collection", err)
			return
		}
		c.JSON(http.StatusCreated, col)
	}
}

func deleteCollection(svc *collectionsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		removed, err := svc.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			if len(removed) > 0 {
				slog.WarnContext(c.Request.Context(), "removed prompts of unknown collection", "collection_id", c.Param("id"), "prompts_removed", len(removed))
			}
			respond.Error(c, "Collection", err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
