// Package templates renders the HTML status page served in HTTP mode.
package templates

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// Page holds data shared by every page.
type Page struct {
	Title   string
	Version string
}

// ToolRow is one registered tool.
type ToolRow struct {
	Name        string
	Description string
}

// StatRow is the call totals of one tool.
type StatRow struct {
	Tool       string
	Calls      int
	Empty      int
	Errors     int
	AvgLatency string
	LastCalled string
}

// CallRow is one recent call.
type CallRow struct {
	Tool     string
	Status   string
	Error    string
	Duration string
	CalledAt string
}

// StatusData is the data of the status page.
type StatusData struct {
	Page
	Server         string
	StartedAt      string
	Tools          []ToolRow
	JournalEnabled bool
	Stats          []StatRow
	Recent         []CallRow
}

// htmlWriter keeps the first write error so components can be written
// straight through.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) text(s string) { h.raw(templ.EscapeString(s)) }

// Layout wraps body in the page chrome.
func Layout(p Page, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="ko"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(p.Title)
		h.raw(`</title><style>` + css + `</style></head><body><main>`)
		if h.err != nil {
			return h.err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</main><footer>tmapmcp `)
		h.text(p.Version)
		h.raw(`</footer></body></html>`)
		return h.err
	})
}

// StatusPage renders the server status: registered tools and, when the
// journal is enabled, per-tool totals and the most recent calls.
func StatusPage(d StatusData) templ.Component {
	return Layout(d.Page, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1>`)
		h.text(d.Server)
		h.raw(`</h1><p class="meta">Started `)
		h.text(d.StartedAt)
		h.raw(`. MCP endpoint: <code>/mcp</code></p>`)

		h.raw(`<h2>Tools (` + strconv.Itoa(len(d.Tools)) + `)</h2><table><tbody>`)
		for _, t := range d.Tools {
			h.raw(`<tr><td><code>`)
			h.text(t.Name)
			h.raw(`</code></td><td>`)
			h.text(t.Description)
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)

		if !d.JournalEnabled {
			h.raw(`<p class="meta">Call history is disabled. Set TMAP_HISTORY_DB to enable it.</p>`)
			return h.err
		}

		h.raw(`<h2>Calls</h2>`)
		if len(d.Stats) == 0 {
			h.raw(`<p class="meta">No calls yet.</p>`)
			return h.err
		}
		h.raw(`<table><thead><tr><th>Tool</th><th>Calls</th><th>Empty</th><th>Errors</th><th>Avg</th><th>Last</th></tr></thead><tbody>`)
		for _, s := range d.Stats {
			h.raw(`<tr><td><code>`)
			h.text(s.Tool)
			h.raw(fmt.Sprintf(`</code></td><td>%d</td><td>%d</td><td>%d</td><td>`, s.Calls, s.Empty, s.Errors))
			h.text(s.AvgLatency)
			h.raw(`</td><td>`)
			h.text(s.LastCalled)
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)

		h.raw(`<h2>Recent</h2><table><tbody>`)
		for _, c := range d.Recent {
			h.raw(`<tr class="` + statusClass(c.Status) + `"><td>`)
			h.text(c.CalledAt)
			h.raw(`</td><td><code>`)
			h.text(c.Tool)
			h.raw(`</code></td><td>`)
			h.text(c.Status)
			h.raw(`</td><td>`)
			h.text(c.Duration)
			h.raw(`</td><td>`)
			h.text(c.Error)
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)
		return h.err
	}))
}

func statusClass(status string) string {
	switch status {
	case "ok", "empty", "error":
		return "status-" + status
	}
	return "status-unknown"
}

const css = `body{font-family:system-ui,sans-serif;margin:0;color:#222}` +
	`main{max-width:60rem;margin:0 auto;padding:1rem}` +
	`table{border-collapse:collapse;width:100%;margin-bottom:1.5rem}` +
	`td,th{border-bottom:1px solid #ddd;padding:.3rem .5rem;text-align:left;vertical-align:top}` +
	`.meta{color:#666}.status-error td{color:#b00020}.status-empty td{color:#777}` +
	`footer{color:#999;font-size:.8rem;text-align:center;padding:1rem}`
