package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/grokwords/internal/browse"
	"github.com/kalambet/grokwords/internal/library"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Library  *library.Library
	PageSize int
}

// NewMCPServer creates an MCP server exposing the word catalog and the
// review schedule as tools.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"grokwords",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("grokwords: vocabulary catalog with a fixed-checkpoint review schedule (0, 1, 3, 7, 15, 30 days)."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("review_schedule",
			mcp.WithDescription("List grok cohorts with the due and completed state of each review checkpoint."),
		),
		mcpReviewSchedule(deps),
	)

	s.AddTool(
		mcp.NewTool("list_words",
			mcp.WithDescription("List catalog words matching the given filters, one page at a time."),
			mcp.WithString("level", mcp.Description("all, 1, 2, 3, toefl or ielts")),
			mcp.WithString("status", mcp.Description("all, ungrokked, grokked or understood")),
			mcp.WithString("query", mcp.Description("Case-insensitive word prefix")),
			mcp.WithString("date", mcp.Description("Grok cohort date, YYYY/MM/DD")),
			mcp.WithNumber("page", mcp.Description("1-based page number (default 1)")),
		),
		mcpListWords(deps),
	)

	s.AddTool(
		mcp.NewTool("lookup_word",
			mcp.WithDescription("Return the stored record for a word."),
			mcp.WithString("word", mcp.Description("Word text or id"), mcp.Required()),
		),
		mcpLookupWord(deps),
	)

	s.AddTool(
		mcp.NewTool("mark_reviewed",
			mcp.WithDescription("Record that a grokked word was reviewed at a checkpoint."),
			mcp.WithString("word", mcp.Description("Word text or id"), mcp.Required()),
			mcp.WithNumber("day", mcp.Description("Checkpoint day: 0, 1, 3, 7, 15 or 30"), mcp.Required()),
		),
		mcpMarkReviewed(deps),
	)

	s.AddTool(
		mcp.NewTool("grok_word",
			mcp.WithDescription("Fetch definition, translation and example for a word from the language model."),
			mcp.WithString("word", mcp.Description("Word text or id"), mcp.Required()),
		),
		mcpGrokWord(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"grokwords://settings",
			"Learner Settings",
			mcp.WithResourceDescription("Native language and reward settings as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceSettings(deps),
	)

	return s
}

func mcpJSON(v any) *mcp.CallToolResult {
	b, err := json.Marshal(v)
	if err != nil {
		return mcpError(fmt.Sprintf("failed to marshal result: %v", err))
	}
	return mcpText(string(b))
}

func mcpReviewSchedule(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcpJSON(deps.Library.Schedule()), nil
	}
}

func mcpListWords(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		level, err := browse.ParseLevel(req.GetString("level", ""))
		if err != nil {
			return mcpError(err.Error()), nil
		}
		status, err := browse.ParseStatus(req.GetString("status", ""))
		if err != nil {
			return mcpError(err.Error()), nil
		}
		f := browse.Filter{
			Level:      level,
			Status:     status,
			Search:     req.GetString("query", ""),
			ReviewDate: req.GetString("date", ""),
		}
		page := browse.Paginate(deps.Library.Words(), f, req.GetInt("page", 1), deps.PageSize)
		return mcpJSON(page), nil
	}
}

func mcpLookupWord(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ref, err := req.RequireString("word")
		if err != nil {
			return mcpError("word is required"), nil
		}
		w, err := deps.Library.Resolve(ref)
		if err != nil {
			return mcpError(fmt.Sprintf("%s: %v", ref, err)), nil
		}
		return mcpJSON(w), nil
	}
}

func mcpMarkReviewed(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ref, err := req.RequireString("word")
		if err != nil {
			return mcpError("word is required"), nil
		}
		day, err := req.RequireInt("day")
		if err != nil {
			return mcpError("day is required"), nil
		}
		rec, err := deps.Library.MarkReviewed(ctx, ref, day)
		if err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpText(fmt.Sprintf("Recorded day %d review of %q (cohort %s)", rec.Day, rec.Word, rec.Date)), nil
	}
}

func mcpGrokWord(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ref, err := req.RequireString("word")
		if err != nil {
			return mcpError("word is required"), nil
		}
		w, err := deps.Library.Resolve(ref)
		if err != nil {
			return mcpError(fmt.Sprintf("%s: %v", ref, err)), nil
		}
		w, err = deps.Library.Grok(ctx, w.ID)
		if errors.Is(err, library.ErrMissingAPIKey) {
			return mcpError("the xAI API key is not configured"), nil
		}
		if err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpJSON(w), nil
	}
}

func mcpResourceSettings(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(settingsView(deps.Library.Settings()))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal settings: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
