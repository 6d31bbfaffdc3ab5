// Package mcpserver serves a ToolBox over the Model Context Protocol so
// agents and editors can read sensors and drive relays.
package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/germanamz/terrarium/pkg/tools/toolbox"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// Server exposes every tool of a ToolBox.
type Server struct {
	server *mcp.Server
	tools  *toolbox.ToolBox
	log    *zap.SugaredLogger
}

// New creates a Server advertising name and version and registers every
// tool in tb.
func New(name, version string, tb *toolbox.ToolBox, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil),
		tools:  tb,
		log:    log,
	}

	for _, t := range tb.Tools() {
		s.server.AddTool(&mcp.Tool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
			Annotations: &mcp.ToolAnnotations{ReadOnlyHint: !t.Mutates},
		}, s.handler(t.Name))
	}

	return s
}

// Serve reads requests from in and writes responses to out until ctx is
// cancelled or the transport closes.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	transport := &mcp.IOTransport{
		Reader: io.NopCloser(in),
		Writer: nopWriteCloser{out},
	}

	return s.run(ctx, transport)
}

func (s *Server) run(ctx context.Context, transport mcp.Transport) error {
	return s.server.Run(ctx, transport)
}

func (s *Server) handler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args json.RawMessage
		if req.Params != nil {
			args = req.Params.Arguments
		}

		start := time.Now()
		res := s.tools.Call(ctx, name, args)
		s.log.Infow("mcp_tool_call", "tool", name, "is_error", res.IsError, "duration", time.Since(start))

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: res.Content}},
			IsError: res.IsError,
		}, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
