// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes Aeris triage tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aerislabs/aeris/internal/scoring"
	"github.com/aerislabs/aeris/internal/storage"
	"github.com/aerislabs/aeris/internal/triage"
)

// Server wraps the MCP server with Aeris tools.
type Server struct {
	mcp   *server.MCPServer
	store storage.Provider
	svc   *triage.Service
}

// New creates a new MCP server with all Aeris tools registered.
func New(store storage.Provider, svc *triage.Service) *Server {
	s := &Server{store: store, svc: svc}

	s.mcp = server.NewMCPServer(
		"Aeris",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("assess_item",
		mcp.WithDescription("Score a damaged item and return a restore/replace recommendation "+
			"without persisting anything. Useful for what-if questions."),
		mcp.WithString("category", mcp.Required(), mcp.Description("Item category: structural, flooring, fixtures, contents, specialty")),
		mcp.WithString("damage_extent", mcp.Required(), mcp.Description("Damage extent: minor, moderate, severe, total")),
		mcp.WithNumber("restoration_cost", mcp.Required(), mcp.Description("Estimated restoration cost")),
		mcp.WithNumber("replacement_cost", mcp.Required(), mcp.Description("Estimated replacement cost")),
		mcp.WithNumber("restoration_days", mcp.Required(), mcp.Description("Days to restore")),
		mcp.WithNumber("replacement_days", mcp.Required(), mcp.Description("Days to replace")),
		mcp.WithString("sentimental_value", mcp.Description("Optional: none, low, medium, high, irreplaceable")),
		mcp.WithNumber("age_years", mcp.Description("Optional item age in years")),
		mcp.WithString("health_concerns", mcp.Description("Optional health risk grade: none, low, medium, high")),
	), s.assessItem)

	s.mcp.AddTool(mcp.NewTool("list_items",
		mcp.WithDescription("List recorded items with their current assessments."),
		mcp.WithString("claim", mcp.Description("Optional claim id to filter by")),
	), s.listItems)

	s.mcp.AddTool(mcp.NewTool("get_zone",
		mcp.WithDescription("Read one HVAC zone including vent states and contamination level."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Zone id")),
	), s.getZone)

	s.mcp.AddTool(mcp.NewTool("run_propagation",
		mcp.WithDescription("Run a contamination propagation pass over a claim's zones and "+
			"return the spread paths and recomputed zone levels."),
		mcp.WithString("claim", mcp.Required(), mcp.Description("Claim id")),
		mcp.WithString("contamination_types", mcp.Description("Optional comma-separated contamination types (e.g. mould,category-3-water)")),
	), s.runPropagation)

	s.mcp.AddTool(mcp.NewTool("get_intake_contract",
		mcp.WithDescription("Returns the canonical Aeris intake document contract. "+
			"Call this before drafting intake YAML files."),
	), s.getIntakeContract)

	s.mcp.AddTool(mcp.NewTool("upload_photo",
		mcp.WithDescription("Upload a damage photo from an http(s) URL or base64 data URI "+
			"into the shared photos directory."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Source URL or data URI")),
		mcp.WithString("filename", mcp.Description("Optional filename; derived from the URL when omitted")),
	), s.uploadPhoto)

	// Resource: intake document contract.
	s.mcp.AddResource(
		mcp.NewResource("aeris://intake-format", "Intake Document Contract",
			mcp.WithResourceDescription("Canonical YAML intake document format for claim drops."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readIntakeFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) assessItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	extent, err := req.RequireString("damage_extent")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	restorationCost, err := req.RequireFloat("restoration_cost")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	replacementCost, err := req.RequireFloat("replacement_cost")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	restorationDays, err := req.RequireInt("restoration_days")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	replacementDays, err := req.RequireInt("replacement_days")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	item := scoring.Item{
		Category:        scoring.Category(category),
		DamageExtent:    scoring.DamageExtent(extent),
		RestorationCost: restorationCost,
		ReplacementCost: replacementCost,
		Sentimental:     scoring.SentimentNone,
		Timeline: scoring.Timeline{
			RestorationDays: restorationDays,
			ReplacementDays: replacementDays,
		},
	}
	if v := req.GetString("sentimental_value", ""); v != "" {
		item.Sentimental = scoring.SentimentalValue(v)
	}
	if v := req.GetFloat("age_years", -1); v >= 0 {
		item.AgeYears = &v
	}
	if v := req.GetString("health_concerns", ""); v != "" {
		item.Risks.HealthConcerns = scoring.RiskLevel(v)
	}

	out, _ := json.MarshalIndent(scoring.Score(item), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	claim := req.GetString("claim", "")
	items, _, err := s.svc.ListItems(ctx, claim, "", 0, 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getZone(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	z, err := s.svc.GetZone(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(z, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) runPropagation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	claim, err := req.RequireString("claim")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var types []string
	if raw := req.GetString("contamination_types", ""); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
	}
	res, err := s.svc.RunSimulation(ctx, claim, types)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(res, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getIntakeContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(IntakeFormatContract), nil
}

func (s *Server) readIntakeFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "aeris://intake-format",
			MIMEType: "text/markdown",
			Text:     IntakeFormatContract,
		},
	}, nil
}
