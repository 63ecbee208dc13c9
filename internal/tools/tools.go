// Package tools exposes the Tmap client as MCP tools.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"tmapmcp/internal/mcpserver"
	"tmapmcp/internal/storage"
	"tmapmcp/internal/tmap"
)

// Journal records tool calls. *storage.DB implements it.
type Journal interface {
	RecordCall(ctx context.Context, c storage.Call) (int64, error)
	RecentCalls(ctx context.Context, tool string, limit int) ([]storage.Call, error)
}

// Handler holds shared dependencies for all tool handlers.
type Handler struct {
	client  *tmap.Client
	journal Journal // nil disables journaling
	logger  *slog.Logger
}

// New creates a Handler. journal may be nil.
func New(client *tmap.Client, journal Journal, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{client: client, journal: journal, logger: logger}
}

// Output is the structured result of every tool. Found is false, with no
// Result, when the upstream had nothing to return.
type Output[T any] struct {
	Found  bool `json:"found"`
	Result *T   `json:"result,omitempty"`
}

// op adapts a client operation to a typed tool handler. Empty results become
// found=false; failures become tool errors.
func op[In, T any](h *Handler, name string, fn func(context.Context, In) (*T, error)) mcp.ToolHandlerFor[In, Output[T]] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Output[T], error) {
		start := time.Now()
		res, err := fn(ctx, in)
		h.record(ctx, name, in, start, err)

		switch {
		case errors.Is(err, tmap.ErrNoResults):
			return nil, Output[T]{Found: false}, nil
		case err != nil:
			return nil, Output[T]{}, err
		}
		return nil, Output[T]{Found: true, Result: res}, nil
	}
}

// Document is an upstream response body passed through as is. Numbers keep
// their original text.
type Document map[string]any

func document(raw json.RawMessage, err error) (*Document, error) {
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var d Document
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode response body: %w", err)
	}
	return &d, nil
}

func addTool[In, T any](rt *mcpserver.Runtime, h *Handler, name, description string, fn func(context.Context, In) (*T, error)) {
	mcpserver.AddTool(rt, &mcp.Tool{Name: name, Description: description}, op(h, name, fn))
}

// record journals one call. Journal failures are logged, never returned.
func (h *Handler) record(ctx context.Context, name string, args any, start time.Time, callErr error) {
	elapsed := time.Since(start)
	status := storage.StatusOK
	var msg string
	switch {
	case errors.Is(callErr, tmap.ErrNoResults):
		status = storage.StatusEmpty
	case callErr != nil:
		status = storage.StatusError
		msg = callErr.Error()
	}

	h.logger.Debug("tool call", "tool", name, "status", status, "duration", elapsed)
	if status == storage.StatusError {
		h.logger.Warn("tool call failed", "tool", name, "error", callErr)
	}
	if h.journal == nil {
		return
	}

	b, err := json.Marshal(args)
	if err != nil {
		b = []byte("{}")
	}
	_, err = h.journal.RecordCall(context.WithoutCancel(ctx), storage.Call{
		Tool:     name,
		Args:     string(b),
		Status:   status,
		Error:    msg,
		Duration: elapsed,
		CalledAt: start,
	})
	if err != nil {
		h.logger.Warn("journaling tool call", "tool", name, "error", err)
	}
}
