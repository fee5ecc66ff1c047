package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/promptlab/promptlab/internal/domain/apperr"
	domainprompt "github.com/promptlab/promptlab/internal/domain/prompt"
	collectionsvc "github.com/promptlab/promptlab/internal/service/collection"
	promptsvc "github.com/promptlab/promptlab/internal/service/prompt"
)

var validate = validator.New()

// createPromptArgs mirrors the HTTP create body so both surfaces enforce the
// same shape.
type createPromptArgs struct {
	Title        string `validate:"min=1,max=200"`
	Content      string `validate:"min=1"`
	Description  string `validate:"max=500"`
	CollectionID string
}

// RegisterTools registers all MCP tools on the server.
// [SRP] Tool registration only.
// [OCP] Add a new tool by adding a new AddTool call; server.go never changes.
func RegisterTools(
	s *mcpserver.MCPServer,
	promptSvc *promptsvc.Service,
	collectionSvc *collectionsvc.Service,
) {
	s.AddTool(mcpmcp.NewTool("list_prompts",
		mcpmcp.WithDescription("List prompts, newest first. Optionally narrow by collection or a case-insensitive search over title and description."),
		mcpmcp.WithString("collection_id", mcpmcp.Description("Only prompts in this collection")),
		mcpmcp.WithString("search", mcpmcp.Description("Substring to match in title or description")),
	), listPromptsHandler(promptSvc))

	s.AddTool(mcpmcp.NewTool("get_prompt",
		mcpmcp.WithDescription("Fetch a single prompt with its template variables."),
		mcpmcp.WithString("prompt_id", mcpmcp.Required(), mcpmcp.Description("Prompt id")),
	), getPromptHandler(promptSvc))

	s.AddTool(mcpmcp.NewTool("create_prompt",
		mcpmcp.WithDescription("Create a prompt. Placeholders are written as {{name}}."),
		mcpmcp.WithString("title", mcpmcp.Required(), mcpmcp.Description("1 to 200 characters")),
		mcpmcp.WithString("content", mcpmcp.Required(), mcpmcp.Description("Prompt template text")),
		mcpmcp.WithString("description", mcpmcp.Description("Up to 500 characters")),
		mcpmcp.WithString("collection_id", mcpmcp.Description("Existing collection to file the prompt under")),
	), createPromptHandler(promptSvc))

	s.AddTool(mcpmcp.NewTool("list_collections",
		mcpmcp.WithDescription("List every collection in creation order."),
	), listCollectionsHandler(collectionSvc))
}

func listPromptsHandler(promptSvc *promptsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		prompts, err := promptSvc.List(ctx, domainprompt.ListFilters{
			CollectionID: mcpmcp.ParseString(req, "collection_id", ""),
			Search:       mcpmcp.ParseString(req, "search", ""),
		})
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(map[string]any{"prompts": prompts, "total": len(prompts)})
	}
}

func getPromptHandler(promptSvc *promptsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		id := mcpmcp.ParseString(req, "prompt_id", "")
		if id == "" {
			return mcpmcp.NewToolResultText("error: prompt_id required"), nil
		}

		p, err := promptSvc.Get(ctx, id)
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(struct {
			domainprompt.Prompt
			Variables []string `json:"variables"`
		}{p, domainprompt.Variables(p.Content)})
	}
}

func createPromptHandler(promptSvc *promptsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		args := createPromptArgs{
			Title:        mcpmcp.ParseString(req, "title", ""),
			Content:      mcpmcp.ParseString(req, "content", ""),
			Description:  mcpmcp.ParseString(req, "description", ""),
			CollectionID: mcpmcp.ParseString(req, "collection_id", ""),
		}
		if err := validate.Struct(args); err != nil {
			return mcpmcp.NewToolResultText("error: " + describe(err)), nil
		}

		p, err := promptSvc.Create(ctx, domainprompt.Fields(args))
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(p)
	}
}

func listCollectionsHandler(collectionSvc *collectionsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, _ mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		cols, err := collectionSvc.List(ctx)
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(map[string]any{"collections": cols, "total": len(cols)})
	}
}

func jsonResult(v any) (*mcpmcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return mcpmcp.NewToolResultText(string(data)), nil
}

// errorResult reports err as tool text so the assistant can read it.
func errorResult(err error) *mcpmcp.CallToolResult {
	switch {
	case errors.Is(err, apperr.ErrInvalidReference):
		return mcpmcp.NewToolResultText("error: collection not found")
	case errors.Is(err, apperr.ErrNotFound):
		return mcpmcp.NewToolResultText("error: prompt not found")
	default:
		return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err))
	}
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s%s", strings.ToLower(fe.Field()), fe.Tag(), param(fe.Param())))
	}
	return strings.Join(parts, "; ")
}

func param(p string) string {
	if p == "" {
		return ""
	}
	return "=" + p
}
