// Package mcp provides Model Context Protocol server functionality.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/helixml/textstat/domain/count"
	"github.com/helixml/textstat/internal/textio"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Counter runs counting requests for MCP tools.
type Counter interface {
	Count(ctx context.Context, request count.Request) (count.Result, error)
}

// Server wraps the MCP server with textstat-specific tools.
type Server struct {
	mcpServer *server.MCPServer
	counter   Counter
	logger    *slog.Logger
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(counter Counter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		counter: counter,
		logger:  logger,
	}

	// Create MCP server with server info
	mcpServer := server.NewMCPServer(
		"textstat",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	// Register tools
	s.registerTools(mcpServer)

	s.mcpServer = mcpServer
	return s
}

// registerTools registers all textstat tools with the MCP server.
func (s *Server) registerTools(mcpServer *server.MCPServer) {
	// Count text tool
	countTextTool := mcp.NewTool("count_text",
		mcp.WithDescription("Count length, characters, lines, words and caret position of a text"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The text to measure"),
		),
		mcp.WithString("metrics",
			mcp.Description("Comma-separated metric names to compute: length, characters, lines, words, location, line, column, unicode (default: all)"),
		),
		mcp.WithString("line_ending",
			mcp.Description("Line ending convention: LF, CR, CRLF, NEL, LS or PS (default: LF)"),
		),
		mcp.WithBoolean("counts_line_ending",
			mcp.Description("Include line terminators in character counts (default: true)"),
		),
		mcp.WithNumber("selection_start",
			mcp.Description("Selection start offset in UTF-16 code units (default: 0)"),
		),
		mcp.WithNumber("selection_end",
			mcp.Description("Selection end offset in UTF-16 code units (default: selection_start)"),
		),
	)

	mcpServer.AddTool(countTextTool, s.handleCountText)

	// Count file tool
	countFileTool := mcp.NewTool("count_file",
		mcp.WithDescription("Count length, characters, lines, words and caret position of a text file"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the file to measure"),
		),
		mcp.WithString("metrics",
			mcp.Description("Comma-separated metric names to compute: length, characters, lines, words, location, line, column, unicode (default: all)"),
		),
		mcp.WithString("line_ending",
			mcp.Description("Line ending convention: LF, CR, CRLF, NEL, LS or PS (default: detected from the file)"),
		),
		mcp.WithBoolean("counts_line_ending",
			mcp.Description("Include line terminators in character counts (default: true)"),
		),
		mcp.WithNumber("selection_start",
			mcp.Description("Selection start offset in UTF-16 code units (default: 0)"),
		),
		mcp.WithNumber("selection_end",
			mcp.Description("Selection end offset in UTF-16 code units (default: selection_start)"),
		),
	)

	mcpServer.AddTool(countFileTool, s.handleCountFile)
}

// handleCountText handles the count_text tool invocation.
func (s *Server) handleCountText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text is required"), nil
	}

	countReq, err := buildRequest(request, text, count.LineEndingLF)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return s.count(ctx, countReq)
}

// handleCountFile handles the count_file tool invocation.
func (s *Server) handleCountFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path is required"), nil
	}

	text, err := textio.ReadFile(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read file: %v", err)), nil
	}

	countReq, err := buildRequest(request, text, count.DetectLineEnding(text))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return s.count(ctx, countReq)
}

// count executes a counting request and formats the result.
func (s *Server) count(ctx context.Context, request count.Request) (*mcp.CallToolResult, error) {
	result, err := s.counter.Count(ctx, request)
	if err != nil {
		s.logger.Error("count failed", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("count failed: %v", err)), nil
	}

	payload := countPayload{
		LineEnding:         request.LineEnding().String(),
		Length:             result.Length(),
		Characters:         result.Characters(),
		Lines:              result.Lines(),
		Words:              result.Words(),
		SelectedLength:     result.SelectedLength(),
		SelectedCharacters: result.SelectedCharacters(),
		SelectedLines:      result.SelectedLines(),
		SelectedWords:      result.SelectedWords(),
		Location:           result.Location(),
		Line:               result.Line(),
		Column:             result.Column(),
		Unicode:            result.Unicode().String(),
	}

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// buildRequest assembles a counting request from tool arguments. The
// fallback convention applies when no line_ending argument is present.
func buildRequest(request mcp.CallToolRequest, text string, fallback count.LineEnding) (count.Request, error) {
	lineEnding := fallback
	if name := request.GetString("line_ending", ""); name != "" {
		parsed, err := count.ParseLineEnding(name)
		if err != nil {
			return count.Request{}, fmt.Errorf("invalid line_ending: %w", err)
		}
		lineEnding = parsed
	}

	metrics := count.All
	if names := request.GetString("metrics", ""); names != "" {
		parsed, err := count.ParseMetrics(strings.Split(names, ","))
		if err != nil {
			return count.Request{}, fmt.Errorf("invalid metrics: %w", err)
		}
		metrics = parsed
	}

	start := request.GetInt("selection_start", 0)
	end := request.GetInt("selection_end", start)

	return count.NewRequest(text, lineEnding, count.NewSelection(start, end)).
		WithRequiredInfo(metrics).
		WithCountsLineEnding(request.GetBool("counts_line_ending", true)), nil
}

// countPayload is the JSON shape both counting tools return.
type countPayload struct {
	LineEnding         string `json:"line_ending"`
	Length             int    `json:"length"`
	Characters         int    `json:"characters"`
	Lines              int    `json:"lines"`
	Words              int    `json:"words"`
	SelectedLength     int    `json:"selected_length"`
	SelectedCharacters int    `json:"selected_characters"`
	SelectedLines      int    `json:"selected_lines"`
	SelectedWords      int    `json:"selected_words"`
	Location           int    `json:"location"`
	Line               int    `json:"line"`
	Column             int    `json:"column"`
	Unicode            string `json:"unicode,omitempty"`
}

// MCPServer returns the underlying MCP server for stdio serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
