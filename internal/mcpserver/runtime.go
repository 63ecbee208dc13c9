// Package mcpserver wraps an MCP server so its tools and resources can be
// served over stdio or streamable HTTP, or invoked in-process without a
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	ErrToolNotFound     = errors.New("tool not found")
	ErrResourceNotFound = errors.New("resource not found")
)

// Runtime owns an mcp.Server and keeps a parallel registry of its handlers
// for in-process dispatch.
type Runtime struct {
	server *mcp.Server
	impl   *mcp.Implementation
	logger *slog.Logger

	mu        sync.RWMutex
	tools     map[string]toolEntry
	resources map[string]resourceEntry
}

type toolEntry struct {
	tool    *mcp.Tool
	handler mcp.ToolHandler
}

type resourceEntry struct {
	resource *mcp.Resource
	handler  mcp.ResourceHandler
}

// Options configures a Runtime. A nil *Options is valid.
type Options struct {
	Logger        *slog.Logger
	Instructions  string
	ServerOptions *mcp.ServerOptions
}

// New creates a Runtime reporting impl to clients.
func New(impl *mcp.Implementation, opts *Options) *Runtime {
	if impl == nil {
		panic("mcpserver: nil Implementation")
	}
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	serverOpts := opts.ServerOptions
	if serverOpts == nil && opts.Instructions != "" {
		serverOpts = &mcp.ServerOptions{Instructions: opts.Instructions}
	}

	return &Runtime{
		server:    mcp.NewServer(impl, serverOpts),
		impl:      impl,
		logger:    logger,
		tools:     make(map[string]toolEntry),
		resources: make(map[string]resourceEntry),
	}
}

// MCPServer returns the underlying server.
func (r *Runtime) MCPServer() *mcp.Server { return r.server }

// Implementation returns the server identity.
func (r *Runtime) Implementation() *mcp.Implementation { return r.impl }

// AddTool registers a typed tool. Input and output schemas are inferred from
// In and Out unless t sets them.
func AddTool[In, Out any](r *Runtime, t *mcp.Tool, h mcp.ToolHandlerFor[In, Out]) {
	mcp.AddTool(r.server, t, h)

	r.mu.Lock()
	r.tools[t.Name] = toolEntry{tool: t, handler: wrapTypedToolHandler(h)}
	r.mu.Unlock()
}

// wrapTypedToolHandler adapts a typed handler for in-process dispatch the
// same way the SDK does for transports: handler errors become IsError
// results and the output is sent both structured and as JSON text.
func wrapTypedToolHandler[In, Out any](h mcp.ToolHandlerFor[In, Out]) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var in In
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &in); err != nil {
				return nil, fmt.Errorf("unmarshaling tool arguments: %w", err)
			}
		}

		result, out, err := h(ctx, req, in)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
				IsError: true,
			}, nil
		}
		if result == nil {
			result = &mcp.CallToolResult{}
		}

		b, err := json.Marshal(out)
		if err != nil {
			return nil, fmt.Errorf("marshaling tool output: %w", err)
		}
		result.StructuredContent = json.RawMessage(b)
		if result.Content == nil {
			result.Content = []mcp.Content{&mcp.TextContent{Text: string(b)}}
		}
		return result, nil
	}
}

// CallTool invokes a registered tool in-process. args is marshaled to JSON
// and must match the tool's input schema.
func (r *Runtime) CallTool(ctx context.Context, name string, args any) (*mcp.CallToolResult, error) {
	r.mu.RLock()
	entry, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	var raw json.RawMessage
	if args != nil {
		b, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("marshaling tool arguments: %w", err)
		}
		raw = b
	}
	return entry.handler(ctx, &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Name: name, Arguments: raw},
	})
}

// AddResource registers a static resource.
func (r *Runtime) AddResource(res *mcp.Resource, h mcp.ResourceHandler) {
	r.server.AddResource(res, h)

	r.mu.Lock()
	r.resources[res.URI] = resourceEntry{resource: res, handler: h}
	r.mu.Unlock()
}

// ReadResource reads a registered resource in-process.
func (r *Runtime) ReadResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	r.mu.RLock()
	entry, ok := r.resources[uri]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, uri)
	}
	return entry.handler(ctx, &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: uri},
	})
}

// ListTools returns the registered tools sorted by name.
func (r *Runtime) ListTools() []*mcp.Tool {
	r.mu.RLock()
	tools := make([]*mcp.Tool, 0, len(r.tools))
	for _, e := range r.tools {
		tools = append(tools, e.tool)
	}
	r.mu.RUnlock()

	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

// HasTool reports whether a tool named name is registered.
func (r *Runtime) HasTool(name string) bool {
	r.mu.RLock()
	_, ok := r.tools[name]
	r.mu.RUnlock()
	return ok
}

// ToolCount returns the number of registered tools.
func (r *Runtime) ToolCount() int {
	r.mu.RLock()
	n := len(r.tools)
	r.mu.RUnlock()
	return n
}

// HasResource reports whether a resource with the given URI is registered.
func (r *Runtime) HasResource(uri string) bool {
	r.mu.RLock()
	_, ok := r.resources[uri]
	r.mu.RUnlock()
	return ok
}

// ServeStdio serves MCP over stdin/stdout until ctx is done or the client
// disconnects.
func (r *Runtime) ServeStdio(ctx context.Context) error {
	r.logger.Info("serving MCP over stdio", "server", r.impl.Name, "tools", r.ToolCount())
	if err := r.server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

// HTTPHandler returns a streamable HTTP handler serving this runtime's
// server to every session.
func (r *Runtime) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return r.server
	}, nil)
}
