package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/loopwork-ai/gsc-mcp/gsc"
	"github.com/loopwork-ai/gsc-mcp/jsonrpc"
)

// ToolRunner is the query pipeline behind the single exposed tool.
type ToolRunner interface {
	Run(ctx context.Context, userQuery string) (gsc.Result, error)
}

// Server represents an MCP server that processes JSON-RPC requests. Every
// tool-execution failure is converted into an error-shaped tool result so
// the calling agent always receives a well-formed envelope; only unknown
// methods surface as JSON-RPC protocol errors.
type Server struct {
	tool   ToolRunner
	info   ServerInfo
	logger *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = logger }
}

// WithServerInfo sets the name and version reported by initialize.
func WithServerInfo(name, version string) ServerOption {
	return func(s *Server) { s.info = ServerInfo{Name: name, Version: version} }
}

// NewServer creates a new MCP server instance around a tool pipeline.
func NewServer(tool ToolRunner, opts ...ServerOption) (*Server, error) {
	if tool == nil {
		return nil, fmt.Errorf("tool runner is required")
	}
	s := &Server{
		tool:   tool,
		info:   ServerInfo{Name: "gsc-mcp", Version: "dev"},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

var _ jsonrpc.Handler = (*Server)(nil)

// Handle processes a single JSON-RPC request and returns a response.
func (s *Server) Handle(ctx context.Context, request jsonrpc.Request) jsonrpc.Response {
	s.logger.Debug("handling request", slog.String("method", request.Method))

	switch request.Method {
	case "initialize":
		return s.handleInitialize(request)
	case "tools/list":
		return s.handleToolsList(request)
	case "tools/call":
		return s.handleToolsCall(ctx, request)
	default:
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrMethodNotFound, request.Method))
	}
}

func (s *Server) handleInitialize(request jsonrpc.Request) jsonrpc.Response {
	result := InitializeResponse{
		ProtocolVersion: Version,
		Capabilities: ServerCapabilities{
			Tools: &struct {
				ListChanged bool `json:"listChanged,omitempty"`
			}{},
		},
		ServerInfo: s.info,
	}
	return jsonrpc.NewResponse(request.Id, result, nil)
}

// queryInputSchema is the input schema for the single exposed tool.
var queryInputSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"query": {
			Type:        "string",
			Description: "The full natural language query from the user requesting data from Google Search Console.",
		},
	},
	Required: []string{"query"},
}

func (s *Server) handleToolsList(request jsonrpc.Request) jsonrpc.Response {
	result := ToolsListResponse{
		Tools: []Tool{
			{
				Name:        gsc.ToolName,
				Description: gsc.ToolDescription,
				Annotations: &ToolAnnotations{ReadOnlyHint: true},
				InputSchema: queryInputSchema,
			},
		},
	}
	return jsonrpc.NewResponse(request.Id, result, nil)
}

func (s *Server) handleToolsCall(ctx context.Context, request jsonrpc.Request) jsonrpc.Response {
	var params ToolCallParams
	if err := json.Unmarshal(request.Params, &params); err != nil {
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, err.Error()))
	}

	var args struct {
		Query string `json:"query"`
	}
	if raw := bytes.TrimSpace(params.Arguments); len(raw) > 0 {
		// Some clients double-encode arguments as a JSON string.
		if raw[0] == '"' {
			var encoded string
			if err := json.Unmarshal(raw, &encoded); err != nil {
				return toolError(request.Id, "Invalid arguments: expected object or JSON string.")
			}
			raw = []byte(encoded)
		}
		if err := json.Unmarshal(raw, &args); err != nil {
			return toolError(request.Id, "Invalid arguments: expected object or JSON string.")
		}
	}

	if params.Name != gsc.ToolName {
		return toolError(request.Id, fmt.Sprintf("Tool not found: %s", params.Name))
	}

	result, err := s.tool.Run(ctx, args.Query)
	if err != nil {
		s.logger.Error("tool call failed",
			slog.String("tool", params.Name),
			slog.Any("error", err),
		)
		return toolError(request.Id, fmt.Sprintf("Tool error (%s): %s", gsc.ToolName, err.Error()))
	}

	s.logger.Info("tool call completed",
		slog.String("tool", params.Name),
		slog.String("status", result.Status),
	)

	return jsonrpc.NewResponse(request.Id, ToolCallResponse{
		Content: []Content{NewTextContent(result.Report)},
	}, nil)
}

// toolError shapes a failure as an error-content tool result rather than a
// JSON-RPC error, so it reaches the calling agent as data.
func toolError(id interface{}, message string) jsonrpc.Response {
	return jsonrpc.NewResponse(id, ToolCallResponse{
		IsError: true,
		Content: []Content{NewTextContent(message)},
	}, nil)
}
