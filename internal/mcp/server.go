package mcp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/AB1903/Extracted-into-json/internal/config"
	"github.com/AB1903/Extracted-into-json/internal/descriptions"
	"github.com/AB1903/Extracted-into-json/internal/export"
	"github.com/AB1903/Extracted-into-json/internal/orders"
	"github.com/AB1903/Extracted-into-json/internal/pdf"
	"github.com/AB1903/Extracted-into-json/internal/products"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *orders.Service
	mcpServer *server.MCPServer
	logger    *logrus.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, service *orders.Service, logger *logrus.Logger) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s := &Server{
		config:    cfg,
		service:   service,
		mcpServer: mcpServer,
		logger:    logger,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	layouts := s.layoutNames()
	methods := make([]string, 0, len(s.service.Methods()))
	for _, m := range s.service.Methods() {
		methods = append(methods, string(m))
	}

	extractProductsTool := mcp.NewTool(
		"extract_products",
		mcp.WithDescription(descriptions.GetToolDescription("extract_products")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, relative paths start at the configured directory"),
		),
		mcp.WithString("layout",
			mcp.Required(),
			mcp.Description("Document layout"),
			mcp.Enum(layouts...),
		),
		mcp.WithString("method",
			mcp.Description("Text extraction method, defaults to the layout's method"),
			mcp.Enum(methods...),
		),
	)
	s.mcpServer.AddTool(extractProductsTool, s.handleExtractProducts)

	parseTextTool := mcp.NewTool(
		"parse_text",
		mcp.WithDescription(descriptions.GetToolDescription("parse_text")),
		mcp.WithString("layout",
			mcp.Required(),
			mcp.Description("Document layout"),
			mcp.Enum(layouts...),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Plain text of the document"),
		),
	)
	s.mcpServer.AddTool(parseTextTool, s.handleParseText)

	listLayoutsTool := mcp.NewTool(
		"list_layouts",
		mcp.WithDescription(descriptions.GetToolDescription("list_layouts")),
	)
	s.mcpServer.AddTool(listLayoutsTool, s.handleListLayouts)
}

func (s *Server) layoutNames() []string {
	var names []string
	for _, l := range s.service.Layouts() {
		names = append(names, l.Name)
	}
	return names
}

// Handler functions
func (s *Server) handleExtractProducts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	layout, err := request.RequireString("layout")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := orders.ExtractRequest{Path: path, Layout: layout}
	if m := request.GetString("method", ""); m != "" {
		method, err := pdf.ParseMethod(m)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		req.Method = method
	}

	result, err := s.service.ExtractFile(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return s.productsResult(result)
}

func (s *Server) handleParseText(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	layout, err := request.RequireString("layout")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.ExtractText(layout, text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return s.productsResult(result)
}

func (s *Server) handleListLayouts(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatLayouts(s.service.Layouts())), nil
}

// productsResult returns the products as JSON followed by a diagnostics summary
func (s *Server) productsResult(result *orders.ExtractResult) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	if err := export.WriteJSON(&buf, result.Products); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	toolResult := mcp.NewToolResultText(buf.String())
	toolResult.Content = append(toolResult.Content, mcp.NewTextContent(s.formatSummary(result)))
	return toolResult, nil
}

// Formatting methods
func (s *Server) formatSummary(result *orders.ExtractResult) string {
	text := fmt.Sprintf("Extracted %d product(s) with layout %s", len(result.Products), result.Layout)
	if result.Method != "" {
		text += fmt.Sprintf(" (method: %s, pages: %d)", result.Method, result.Pages)
	}
	text += "\n"

	var notes []products.Diagnostic
	for _, d := range result.Diagnostics {
		if d.Severity == products.SeverityWarning || d.Kind == products.KindSegmentationEmpty {
			notes = append(notes, d)
		}
	}
	if len(notes) == 0 {
		return text + "No warnings\n"
	}

	text += fmt.Sprintf("Diagnostics (%d):\n", len(notes))
	for _, d := range notes {
		text += fmt.Sprintf("- %s\n", d.String())
	}
	return text
}

func (s *Server) formatLayouts(layouts []orders.LayoutInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Supported layouts (%d):\n", len(layouts))
	for _, l := range layouts {
		fmt.Fprintf(&b, "\n• %s\n", l.Name)
		fmt.Fprintf(&b, "  Brand: %s\n", l.Brand)
		fmt.Fprintf(&b, "  Default method: %s\n", l.DefaultMethod)
		fmt.Fprintf(&b, "  Retail price: %t\n", l.ListsRetail)
	}
	return b.String()
}

// Run serves MCP over stdin and stdout until ctx is cancelled or the input
// is closed
func (s *Server) Run(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	s.logger.WithFields(logrus.Fields{
		"server":    s.config.ServerName,
		"version":   s.config.Version,
		"directory": s.config.Directory,
	}).Info("starting MCP server in stdio mode")

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(log.New(s.logger.WriterLevel(logrus.ErrorLevel), "", 0))

	if err := stdio.Listen(ctx, stdin, stdout); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
