package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
)

const uriScheme = "clausefinder://"

// Resource URIs.
const (
	HealthURI = uriScheme + "health"
	IndexURI  = uriScheme + "index"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         HealthURI,
		Name:        "health",
		Description: "Service health status",
		MIMEType:    "application/json",
	}, s.handleHealthResource)

	if s.ports.Index != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         IndexURI,
			Name:        "index",
			Description: "Statistics for the served clause index",
			MIMEType:    "application/json",
		}, s.handleIndexResource)
	}
}

type healthInfo struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version,omitempty"`
}

func (s *Server) handleHealthResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	h := s.ports.API.Health()
	return jsonResource(req.Params.URI, healthInfo{Status: h.Status, Timestamp: h.Timestamp, Version: s.version})
}

type indexInfo struct {
	Built      bool       `json:"built"`
	Backend    string     `json:"backend,omitempty"`
	Count      int        `json:"count"`
	Dimensions int        `json:"dimensions,omitempty"`
	BuiltAt    *time.Time `json:"built_at,omitempty"`
}

func (s *Server) handleIndexResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stats, err := s.ports.Index.Stats()
	if errors.Is(err, domain.ErrIndexNotBuilt) {
		return jsonResource(req.Params.URI, indexInfo{})
	}
	if err != nil {
		return nil, fmt.Errorf("reading index stats: %w", err)
	}

	return jsonResource(req.Params.URI, indexInfo{
		Built:      true,
		Backend:    stats.Backend,
		Count:      stats.Count,
		Dimensions: stats.Dimensions,
		BuiltAt:    &stats.BuiltAt,
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
