package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"tmapmcp/internal/mcpserver"
)

// HistoryURI is the resource listing recent journaled tool calls.
const HistoryURI = "tmap://history"

const historyLimit = 50

// HistoryEntry is one call as reported by the history resource.
type HistoryEntry struct {
	Tool       string          `json:"tool"`
	Args       json.RawMessage `json:"args"`
	Status     string          `json:"status"`
	Error      string          `json:"error,omitempty"`
	DurationMS int64           `json:"duration_ms"`
	CalledAt   time.Time       `json:"called_at"`
}

func (h *Handler) registerHistory(rt *mcpserver.Runtime) {
	rt.AddResource(&mcp.Resource{
		URI:         HistoryURI,
		Name:        "history",
		Description: fmt.Sprintf("The %d most recent Tmap tool calls, newest first.", historyLimit),
		MIMEType:    "application/json",
	}, h.readHistory)
}

func (h *Handler) readHistory(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	calls, err := h.journal.RecentCalls(ctx, "", historyLimit)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	entries := make([]HistoryEntry, len(calls))
	for i, c := range calls {
		args := json.RawMessage(c.Args)
		if !json.Valid(args) {
			args = json.RawMessage("{}")
		}
		entries[i] = HistoryEntry{
			Tool:       c.Tool,
			Args:       args,
			Status:     c.Status,
			Error:      c.Error,
			DurationMS: c.Duration.Milliseconds(),
			CalledAt:   c.CalledAt,
		}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}
	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{{
		URI:      req.Params.URI,
		MIMEType: "application/json",
		Text:     string(b),
	}}}, nil
}
