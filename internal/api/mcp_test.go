package api

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kalambet/grokwords/internal/browse"
	"github.com/kalambet/grokwords/internal/review"
	"github.com/kalambet/grokwords/internal/vocab"
)

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func makeCallToolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestMCPTool_ReviewSchedule(t *testing.T) {
	lib, _ := newTestLibrary(t, "k")
	result, err := mcpReviewSchedule(MCPDeps{Library: lib})(context.Background(), makeCallToolRequest("review_schedule", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var cohorts []review.Cohort
	if err := json.Unmarshal([]byte(toolText(t, result)), &cohorts); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(cohorts) != 1 {
		t.Fatalf("expected 1 cohort, got %d", len(cohorts))
	}
	cp, _ := cohorts[0].Checkpoint(7)
	if !cp.Due {
		t.Errorf("day 7 should be due: %+v", cp)
	}
}

func TestMCPTool_ListWords(t *testing.T) {
	lib, _ := newTestLibrary(t, "k")
	handler := mcpListWords(MCPDeps{Library: lib, PageSize: 10})

	result, _ := handler(context.Background(), makeCallToolRequest("list_words", map[string]interface{}{
		"status": "grokked",
		"date":   "2024/01/01",
	}))
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}
	var page browse.Page
	if err := json.Unmarshal([]byte(toolText(t, result)), &page); err != nil {
		t.Fatal(err)
	}
	if page.Total != 2 {
		t.Errorf("total = %d", page.Total)
	}

	result, _ = handler(context.Background(), makeCallToolRequest("list_words", map[string]interface{}{"level": "9"}))
	if !result.IsError {
		t.Error("expected error for bad level")
	}
}

func TestMCPTool_LookupWord(t *testing.T) {
	lib, _ := newTestLibrary(t, "k")
	handler := mcpLookupWord(MCPDeps{Library: lib})

	result, _ := handler(context.Background(), makeCallToolRequest("lookup_word", map[string]interface{}{"word": "EPHEMERAL"}))
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}
	var w vocab.Word
	json.Unmarshal([]byte(toolText(t, result)), &w)
	if w.ID != "e1" {
		t.Errorf("word = %+v", w)
	}

	result, _ = handler(context.Background(), makeCallToolRequest("lookup_word", map[string]interface{}{}))
	if !result.IsError {
		t.Error("expected error for missing word")
	}
	result, _ = handler(context.Background(), makeCallToolRequest("lookup_word", map[string]interface{}{"word": "zzz"}))
	if !result.IsError {
		t.Error("expected error for unknown word")
	}
}

func TestMCPTool_MarkReviewed(t *testing.T) {
	lib, store := newTestLibrary(t, "k")
	handler := mcpMarkReviewed(MCPDeps{Library: lib})

	result, _ := handler(context.Background(), makeCallToolRequest("mark_reviewed", map[string]interface{}{
		"word": "Resilient",
		"day":  float64(7),
	}))
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}
	if !strings.Contains(toolText(t, result), "2024/01/01") {
		t.Errorf("text = %s", toolText(t, result))
	}
	reviews, _ := store.AllReviews(context.Background())
	if len(reviews) != 1 || reviews[0].Word != "Resilient" || reviews[0].Day != 7 {
		t.Errorf("reviews = %+v", reviews)
	}

	result, _ = handler(context.Background(), makeCallToolRequest("mark_reviewed", map[string]interface{}{"word": "Resilient", "day": 5}))
	if !result.IsError {
		t.Error("expected error for day 5")
	}
	result, _ = handler(context.Background(), makeCallToolRequest("mark_reviewed", map[string]interface{}{"word": "fleeting", "day": 0}))
	if !result.IsError {
		t.Error("expected error for ungrokked word")
	}
}

func TestMCPTool_GrokWord(t *testing.T) {
	lib, _ := newTestLibrary(t, "k")
	result, _ := mcpGrokWord(MCPDeps{Library: lib})(context.Background(), makeCallToolRequest("grok_word", map[string]interface{}{"word": "fleeting"}))
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}
	var w vocab.Word
	json.Unmarshal([]byte(toolText(t, result)), &w)
	if w.Definition != "lasting a short time\nfugaz" {
		t.Errorf("word = %+v", w)
	}

	noKey, _ := newTestLibrary(t, "")
	result, _ = mcpGrokWord(MCPDeps{Library: noKey})(context.Background(), makeCallToolRequest("grok_word", map[string]interface{}{"word": "fleeting"}))
	if !result.IsError || !strings.Contains(toolText(t, result), "API key") {
		t.Errorf("expected missing key error, got %q", toolText(t, result))
	}
}

func TestMCPResourceSettings(t *testing.T) {
	lib, _ := newTestLibrary(t, "secret-key")
	contents, err := mcpResourceSettings(MCPDeps{Library: lib})(context.Background(), mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: "grokwords://settings"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := contents[0].(mcp.TextResourceContents).Text
	if strings.Contains(text, "secret-key") || !strings.Contains(text, `"has_api_key":true`) {
		t.Errorf("settings resource = %s", text)
	}
}

func TestNewMCPServer(t *testing.T) {
	lib, _ := newTestLibrary(t, "k")
	if s := NewMCPServer(MCPDeps{Library: lib}); s == nil {
		t.Fatal("expected server")
	}
}
