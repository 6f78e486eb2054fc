package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ErrUnknownTool is returned when no connected endpoint offers a tool.
var ErrUnknownTool = errors.New("mcp: unknown tool")

// ToolError carries the error text a tool reported.
type ToolError struct {
	Tool    string
	Message string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s failed: %s", e.Tool, e.Message)
}

// Client connects to one or more MCP endpoints and routes calls by tool name.
type Client struct {
	sessions []*mcp.ClientSession
	tools    map[string]*mcp.ClientSession
}

// Dial connects to every endpoint and indexes the tools they list. An
// unreachable endpoint is logged and skipped; Dial fails only when no tool
// could be loaded. When two endpoints offer the same tool, the first one wins.
func Dial(ctx context.Context, endpoints []string, version string) (*Client, error) {
	if len(endpoints) == 0 {
		return nil, errors.New("mcp: no tool endpoints configured")
	}
	impl := &mcp.Implementation{Name: "youbuddy-agent", Version: version}
	c := &Client{tools: map[string]*mcp.ClientSession{}}
	for _, endpoint := range endpoints {
		endpoint = strings.TrimSpace(endpoint)
		if endpoint == "" {
			continue
		}
		client := mcp.NewClient(impl, nil)
		session, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: endpoint}, nil)
		if err != nil {
			slog.Error("mcp: connect failed", "endpoint", endpoint, "err", err)
			continue
		}
		res, err := session.ListTools(ctx, &mcp.ListToolsParams{})
		if err != nil {
			slog.Error("mcp: list tools failed", "endpoint", endpoint, "err", err)
			_ = session.Close()
			continue
		}
		c.sessions = append(c.sessions, session)
		for _, tool := range res.Tools {
			if _, dup := c.tools[tool.Name]; dup {
				slog.Warn("mcp: duplicate tool, keeping first", "tool", tool.Name, "endpoint", endpoint)
				continue
			}
			c.tools[tool.Name] = session
		}
		slog.Info("mcp: connected", "endpoint", endpoint, "tools", len(res.Tools))
	}
	if len(c.tools) == 0 {
		_ = c.Close()
		return nil, errors.New("mcp: no tools could be loaded")
	}
	return c, nil
}

// Tools returns the names of all indexed tools.
func (c *Client) Tools() []string {
	out := make([]string, 0, len(c.tools))
	for name := range c.tools {
		out = append(out, name)
	}
	return out
}

// Call invokes tool with args and decodes its structured result into out.
// Tools without structured output fall back to JSON in their text content.
func (c *Client) Call(ctx context.Context, tool string, args any, out any) error {
	session, ok := c.tools[tool]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTool, tool)
	}
	res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: tool, Arguments: args})
	if err != nil {
		return fmt.Errorf("mcp: call %s: %w", tool, err)
	}
	if res.IsError {
		return &ToolError{Tool: tool, Message: textOf(res)}
	}
	if out == nil {
		return nil
	}
	var raw []byte
	if res.StructuredContent != nil {
		raw, err = json.Marshal(res.StructuredContent)
		if err != nil {
			return fmt.Errorf("mcp: %s: encode structured content: %w", tool, err)
		}
	} else {
		raw = []byte(textOf(res))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("mcp: %s: decode result: %w", tool, err)
	}
	return nil
}

// Close ends every session.
func (c *Client) Close() error {
	var errs []error
	for _, s := range c.sessions {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func textOf(res *mcp.CallToolResult) string {
	var b strings.Builder
	for _, content := range res.Content {
		if tc, ok := content.(*mcp.TextContent); ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}
