package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Switchboard resources.
	uriScheme = "switchboard://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the specialist registry.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "domains",
		Name:        "domains",
		Description: "The specialist domain registry",
		MIMEType:    "application/json",
	}, s.handleDomainsResource)

	// Template for a domain's ingested sources.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "domains/{domain}/sources",
		Name:        "domain-sources",
		Description: "Sources ingested into a specific domain's knowledge base",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)

	// Static resource for listing sessions.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sessions",
		Name:        "sessions",
		Description: "List of conversation session IDs",
		MIMEType:    "application/json",
	}, s.handleSessionsResource)
}

// handleDomainsResource returns the specialist registry.
func (s *Server) handleDomainsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type domainInfo struct {
		Domain      string   `json:"domain"`
		DisplayName string   `json:"display_name"`
		Description string   `json:"description"`
		Tools       []string `json:"tools,omitempty"`
		Retrieval   bool     `json:"retrieval"`
	}

	infos := make([]domainInfo, len(s.ports.Specialists))
	for i, spec := range s.ports.Specialists {
		infos[i] = domainInfo{
			Domain:      string(spec.Domain),
			DisplayName: spec.DisplayName,
			Description: spec.Description,
			Tools:       spec.Tools,
			Retrieval:   spec.Retrieval,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling domains: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleSourcesResource returns the ingested sources for a specific domain.
func (s *Server) handleSourcesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Knowledge == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract domain from URI: switchboard://domains/{domain}/sources
	dom := extractDomain(req.Params.URI)
	if dom == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	sources, err := s.ports.Knowledge.Sources(ctx, domain.Domain(dom))
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}

	type sourceInfo struct {
		Source     string `json:"source"`
		ChunkCount int    `json:"chunk_count"`
		TotalSize  int    `json:"total_size"`
	}

	infos := make([]sourceInfo, len(sources))
	for i, src := range sources {
		infos[i] = sourceInfo{
			Source:     src.Source,
			ChunkCount: src.ChunkCount,
			TotalSize:  src.TotalSize,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling sources: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleSessionsResource returns the known session IDs.
func (s *Server) handleSessionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Sessions == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	ids, err := s.ports.Sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}

	data, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling sessions: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDomain extracts the domain from a URI like switchboard://domains/{domain}/sources.
func extractDomain(uri string) string {
	const prefix = uriScheme + "domains/"
	const suffix = "/sources"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
