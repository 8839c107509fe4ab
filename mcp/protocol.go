package mcp

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// Version is the Model Context Protocol version.
const Version = "2024-11-05"

// Content represents a single piece of tool output.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// NewTextContent creates a text content block.
func NewTextContent(text string) Content {
	return Content{
		Type: "text",
		Text: text,
	}
}

// Initialize
type (
	// ServerCapabilities represents the server's supported capabilities.
	ServerCapabilities struct {
		Tools *struct {
			ListChanged bool `json:"listChanged,omitempty"`
		} `json:"tools,omitempty"`
	}

	// ServerInfo represents information about an MCP implementation.
	ServerInfo struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}

	// InitializeResponse represents the server's response to an
	// initialize request.
	InitializeResponse struct {
		ProtocolVersion string             `json:"protocolVersion"`
		Capabilities    ServerCapabilities `json:"capabilities"`
		ServerInfo      ServerInfo         `json:"serverInfo"`
	}
)

// Tools
type (
	// ToolAnnotations carries behavioral hints about a tool.
	ToolAnnotations struct {
		ReadOnlyHint bool `json:"readOnlyHint,omitempty"`
	}

	// Tool represents a single tool in the tools/list response.
	Tool struct {
		Name        string             `json:"name"`
		Description string             `json:"description,omitempty"`
		Annotations *ToolAnnotations   `json:"annotations,omitempty"`
		InputSchema *jsonschema.Schema `json:"inputSchema"`
	}

	// ToolsListResponse represents the response for the tools/list method.
	ToolsListResponse struct {
		Tools []Tool `json:"tools"`
	}

	// ToolCallParams represents the parameters for the tools/call method.
	// Arguments is either a JSON object or a JSON string containing an
	// encoded object; the server accepts both.
	ToolCallParams struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments,omitempty"`
	}

	// ToolCallResponse represents the response from a tool call.
	ToolCallResponse struct {
		Content []Content `json:"content"`
		IsError bool      `json:"isError,omitempty"`
	}
)
