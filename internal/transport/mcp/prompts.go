package mcp

import (
	"context"
	"fmt"

	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	promptsvc "github.com/promptlab/promptlab/internal/service/prompt"
)

const promptIDArg = "prompt_id"

// RegisterPrompts exposes stored prompts as an MCP native prompt.
// [SRP] Prompt registration only; separated from server lifecycle and tool definitions.
func RegisterPrompts(s *mcpserver.MCPServer, promptSvc *promptsvc.Service) {
	s.AddPrompt(
		mcpmcp.NewPrompt("render_prompt",
			mcpmcp.WithPromptDescription("Render a stored prompt. Every argument other than prompt_id fills the {{placeholder}} of the same name."),
			mcpmcp.WithArgument(promptIDArg,
				mcpmcp.ArgumentDescription("Id of the prompt to render"),
				mcpmcp.RequiredArgument(),
			),
		),
		renderHandler(promptSvc),
	)
}

func renderHandler(promptSvc *promptsvc.Service) mcpserver.PromptHandlerFunc {
	return func(ctx context.Context, req mcpmcp.GetPromptRequest) (*mcpmcp.GetPromptResult, error) {
		id := req.Params.Arguments[promptIDArg]
		if id == "" {
			return nil, fmt.Errorf("%s is required", promptIDArg)
		}

		values := make(map[string]string, len(req.Params.Arguments))
		for k, v := range req.Params.Arguments {
			if k != promptIDArg {
				values[k] = v
			}
		}

		p, text, err := promptSvc.Render(ctx, id, values)
		if err != nil {
			return nil, fmt.Errorf("render prompt %s: %w", id, err)
		}

		return mcpmcp.NewGetPromptResult(
			p.Title,
			[]mcpmcp.PromptMessage{
				mcpmcp.NewPromptMessage(
					mcpmcp.RoleUser,
					mcpmcp.TextContent{
						Type: "text",
						Text: text,
					},
				),
			},
		), nil
	}
}
