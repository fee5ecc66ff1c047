package prompt

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainprompt "github.com/promptlab/promptlab/internal/domain/prompt"
	promptsvc "github.com/promptlab/promptlab/internal/service/prompt"
	"github.com/promptlab/promptlab/internal/transport/respond"
)

// Register mounts the prompt REST endpoints on the given router group.
// [SRP] HTTP binding only; every rule beyond field shape lives in promptsvc.
func Register(rg *gin.RouterGroup, svc *promptsvc.Service) {
	rg.GET("", listPrompts(svc))
	rg.POST("", createPrompt(svc))
	rg.GET("/:id", getPrompt(svc))
	rg.PUT("/:id", updatePrompt(svc))
	rg.PATCH("/:id", patchPrompt(svc))
	rg.DELETE("/:id", deletePrompt(svc))
	rg.GET("/:id/variables", promptVariables(svc))
}

// promptReq is the body of both create and full update.
type promptReq struct {
	Title        string `json:"title" binding:"required,min=1,max=200"`
	Content      string `json:"content" binding:"required,min=1"`
	Description  string `json:"description" binding:"max=500"`
	CollectionID string `json:"collection_id"`
}

func (r promptReq) fields() domainprompt.Fields {
	return domainprompt.Fields{
		Title:        r.Title,
		Content:      r.Content,
		Description:  r.Description,
		CollectionID: r.CollectionID,
	}
}

// patchReq distinguishes omitted (nil) from supplied fields. A supplied empty
// title or content fails min=1 here; an empty description or collection_id
// passes and is then ignored by the merge.
type patchReq struct {
	Title        *string `json:"title" binding:"omitempty,min=1,max=200"`
	Content      *string `json:"content" binding:"omitempty,min=1"`
	Description  *string `json:"description" binding:"omitempty,max=500"`
	CollectionID *string `json:"collection_id"`
}

type listResp struct {
	Prompts []domainprompt.Prompt `json:"prompts"`
	Total   int                   `json:"total"`
}

type variablesResp struct {
	Variables    []string `json:"variables"`
	ValidContent bool     `json:"valid_content"`
}

func listPrompts(svc *promptsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters := domainprompt.ListFilters{
			CollectionID: c.Query("collection_id"),
			Search:       c.Query("search"),
		}

		prompts, err := svc.List(c.Request.Context(), filters)
		if err != nil {
			respond.Error(c, "Prompt", err)
			return
		}
		c.JSON(http.StatusOK, listResp{Prompts: prompts, Total: len(prompts)})
	}
}

func getPrompt(svc *promptsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, "Prompt", err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func createPrompt(svc *promptsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req promptReq
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Invalid(c, err)
			return
		}

		p, err := svc.Create(c.Request.Context(), req.fields())
		if err != nil {
			respond.Error(c, "Prompt", err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func updatePrompt(svc *promptsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req promptReq
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Invalid(c, err)
			return
		}

		p, err := svc.Update(c.Request.Context(), c.Param("id"), req.fields())
		if err != nil {
			respond.Error(c, "Prompt", err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func patchPrompt(svc *promptsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req patchReq
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Invalid(c, err)
			return
		}

		p, err := svc.Patch(c.Request.Context(), c.Param("id"), domainprompt.Patch{
			Title:        req.Title,
			Content:      req.Content,
			Description:  req.Description,
			CollectionID: req.CollectionID,
		})
		if err != nil {
			respond.Error(c, "Prompt", err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func deletePrompt(svc *promptsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respond.Error(c, "Prompt", err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func promptVariables(svc *promptsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		vars, valid, err := svc.Variables(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, "Prompt", err)
			return
		}
		c.JSON(http.StatusOK, variablesResp{Variables: vars, ValidContent: valid})
	}
}
