// Package mcpserver exposes design validation and activity rendering as
// Model Context Protocol tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"blueprint/internal/flow"
	"blueprint/internal/metrics"
	"blueprint/internal/model"
	"blueprint/internal/workspace"
)

const surface = "mcp"

// Server adapts the design validator to MCP.
type Server struct {
	mcpServer *server.MCPServer
	metrics   *metrics.Metrics
}

// NewServer creates a server; m may be nil.
func NewServer(version string, m *metrics.Metrics) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"blueprint",
			version,
		),
		metrics: m,
	}
	s.registerResources()
	s.registerTools()
	return s
}

// Serve runs the server on stdio until the client disconnects.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

// --- Resources ---

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(
		"blueprint://kinds",
		"Design document kinds",
		mcp.WithResourceDescription("Document kinds accepted by validate_design and the finding kinds it can report"),
		mcp.WithMIMEType("application/json"),
	), s.handleReadKinds)
}

// --- Tools ---

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		"validate_design",
		mcp.WithDescription("Validate a YAML stream of design documents. Returns a summary or the first finding."),
		mcp.WithString("document", mcp.Required(), mcp.Description("YAML documents separated by '---', each with a 'kind' field")),
	), s.handleValidate)

	s.mcpServer.AddTool(mcp.NewTool(
		"render_activity",
		mcp.WithDescription("Render activity diagrams of a validated design as PlantUML."),
		mcp.WithString("document", mcp.Required(), mcp.Description("YAML documents separated by '---', each with a 'kind' field")),
		mcp.WithNumber("diagram_id", mcp.Description("Render only this activity diagram")),
	), s.handleRender)
}

// --- Handlers ---

type kindsResource struct {
	Documents []workspace.Kind    `json:"documents"`
	Findings  []model.FindingKind `json:"findings"`
}

func (s *Server) handleReadKinds(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(kindsResource{Documents: workspace.Kinds, Findings: model.FindingKinds}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal kinds: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := s.assemble(request)
	if err != nil {
		return findingResult(err), nil
	}
	data, err := json.MarshalIndent(p.Summary(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary: %w", err)
	}
	return mcp.NewToolResultText("valid\n" + string(data)), nil
}

func (s *Server) handleRender(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := s.assemble(request)
	if err != nil {
		return findingResult(err), nil
	}

	diagrams := p.ActivityDiagrams()
	if _, ok := request.GetArguments()["diagram_id"]; ok {
		id := model.DiagramID(mcp.ParseInt(request, "diagram_id", 0))
		a, found := p.ActivityDiagram(id)
		if !found {
			return mcp.NewToolResultError(fmt.Sprintf("activity diagram %d not found", id)), nil
		}
		diagrams = []*model.ActivityModel{a}
	}
	if len(diagrams) == 0 {
		return mcp.NewToolResultError("the design has no activity diagrams"), nil
	}

	var b strings.Builder
	for _, a := range diagrams {
		doc, n := flow.Render(a)
		s.metrics.ObserveRender(surface, n)
		b.WriteString(doc)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) assemble(request mcp.CallToolRequest) (*workspace.Project, error) {
	doc := mcp.ParseString(request, "document", "")
	docs, err := workspace.Decode("document.yaml", []byte(doc))
	if err != nil {
		s.metrics.ObserveValidation(surface, err)
		return nil, err
	}
	p, err := workspace.Assemble("", docs)
	s.metrics.ObserveValidation(surface, err)
	return p, err
}

// findingResult reports err as a tool error. A finding is rendered as JSON
// so agents can act on its fields.
func findingResult(err error) *mcp.CallToolResult {
	f, ok := model.AsFinding(err)
	if !ok {
		return mcp.NewToolResultError(err.Error())
	}
	data, mErr := json.Marshal(f)
	if mErr != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(err.Error() + "\n" + string(data))
}
