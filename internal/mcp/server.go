package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServerName is announced during the MCP handshake.
const ServerName = "taskquest-mcp"

func markdownResponse(markdown string) *mcpsdk.CallToolResultFor[any] {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: markdown}},
	}
}

func errorResponse(e *ToolError) *mcpsdk.CallToolResultFor[any] {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: e.Markdown()}},
		IsError: true,
	}
}

func respond(text string, terr *ToolError) (*mcpsdk.CallToolResultFor[any], error) {
	if terr != nil {
		return errorResponse(terr), nil
	}
	return markdownResponse(text), nil
}

// tool adapts a handler method to the SDK's handler signature.
func tool[In any](fn func(context.Context, In) (string, *ToolError)) func(context.Context, *mcpsdk.ServerSession, *mcpsdk.CallToolParamsFor[In]) (*mcpsdk.CallToolResultFor[any], error) {
	return func(ctx context.Context, _ *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[In]) (*mcpsdk.CallToolResultFor[any], error) {
		return respond(fn(ctx, params.Arguments))
	}
}

// NewServer registers every tool on a fresh MCP server.
func NewServer(h *Handlers, version string) *mcpsdk.Server {
	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: ServerName, Version: version}, &mcpsdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, _ *mcpsdk.ServerSession, _ *mcpsdk.InitializedParams) {
			h.logger().Info("mcp client initialized")
		},
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        ToolAddTask,
		Description: "Create a task. Only title is required; horizon (daily|monthly|yearly) and priority (low|medium|high|critical) default from the user's preferences. XP is fixed from priority and horizon at creation.",
	}, tool(h.AddTask))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        ToolListTasks,
		Description: "List tasks. Use view (today|month|year|rolled-over) for a derived list, or filter by horizon, priority, category, energy, completed and a free-text query.",
	}, tool(h.ListTasks))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        ToolToggleTask,
		Description: "Complete or reopen a task by ID or unique ID prefix. Completing awards XP and may level up, extend the streak, unlock badges and advance the daily challenge.",
	}, tool(h.ToggleTask))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        ToolDailyPlan,
		Description: "Build today's recommended plan: overdue and due-today important tasks and daily habits first, then backlog up to a target count within an 8 hour budget.",
	}, tool(h.DailyPlan))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        ToolProfile,
		Description: "Show level, XP, streaks, badges and the daily challenge. Set include_locked to list badges not yet earned.",
	}, tool(h.Profile))

	return server
}

// Run serves the tools over stdio until ctx is cancelled or the client
// disconnects. Nothing but JSON-RPC may be written to stdout meanwhile.
func Run(ctx context.Context, h *Handlers, version string) error {
	return NewServer(h, version).Run(ctx, mcpsdk.NewStdioTransport())
}
