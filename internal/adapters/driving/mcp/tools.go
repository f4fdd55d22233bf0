package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
	"github.com/switchboard-labs/switchboard-cli/internal/core/ports/driving"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Query     string `json:"query" jsonschema:"the question to route to a specialist agent"`
	SessionID string `json:"session_id,omitempty" jsonschema:"conversation session ID for multi-turn context"`
	Domain    string `json:"domain,omitempty" jsonschema:"force dispatch to this domain instead of routing"`
	TopK      int    `json:"top_k,omitempty" jsonschema:"number of knowledge-base passages to retrieve (default 5)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer     string         `json:"answer"`
	Domain     string         `json:"domain"`
	Outcome    string         `json:"outcome"`
	Confidence float64        `json:"confidence"`
	Sources    []SourceOutput `json:"sources,omitempty"`
}

// SourceOutput is one grounding passage in an answer.
type SourceOutput struct {
	Source   string  `json:"source"`
	Score    float64 `json:"score"`
	Position int     `json:"position"`
}

// RouteInput is the input schema for the route tool.
type RouteInput struct {
	Query string `json:"query" jsonschema:"the query to score against the specialist registry"`
}

// RouteOutput is the output schema for the route tool.
type RouteOutput struct {
	Scores []RouteScoreOutput `json:"scores"`
}

// RouteScoreOutput is one domain's routing score.
type RouteScoreOutput struct {
	Domain     string  `json:"domain"`
	Confidence float64 `json:"confidence"`
}

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Domain string `json:"domain" jsonschema:"the knowledge base to search"`
	Query  string `json:"query" jsonschema:"the search query"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of passages to return (default 5)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Results []RetrieveResultOutput `json:"results"`
	Count   int                    `json:"count"`
}

// RetrieveResultOutput represents a single retrieved passage.
type RetrieveResultOutput struct {
	Source   string  `json:"source"`
	Position int     `json:"position"`
	Score    float64 `json:"score"`
	Text     string  `json:"text"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a question; it is routed to the best specialist agent",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "route",
		Description: "Score a query against the specialist registry without answering",
	}, s.handleRoute)

	if s.ports.Knowledge != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "retrieve",
			Description: "Search one domain's knowledge base directly",
		}, s.handleRetrieve)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	opts := driving.AskOptions{
		SessionID: input.SessionID,
		Domain:    domain.Domain(input.Domain),
		TopK:      input.TopK,
	}

	answer, err := s.ports.Assistant.Ask(ctx, input.Query, opts)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:     answer.Text,
		Domain:     string(answer.Domain),
		Outcome:    string(answer.Outcome),
		Confidence: answer.Confidence,
		Sources:    make([]SourceOutput, len(answer.Sources)),
	}
	for i := range answer.Sources {
		output.Sources[i] = SourceOutput{
			Source:   answer.Sources[i].Source,
			Score:    answer.Sources[i].Score,
			Position: answer.Sources[i].Position,
		}
	}

	return nil, output, nil
}

// handleRoute handles the route tool invocation.
func (s *Server) handleRoute(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RouteInput,
) (*mcp.CallToolResult, RouteOutput, error) {
	scores, err := s.ports.Assistant.Route(ctx, input.Query)
	if err != nil {
		return nil, RouteOutput{}, err
	}

	output := RouteOutput{Scores: make([]RouteScoreOutput, len(scores))}
	for i, score := range scores {
		output.Scores[i] = RouteScoreOutput{
			Domain:     string(score.Domain),
			Confidence: score.Confidence,
		}
	}

	return nil, output, nil
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	if input.Domain == "" {
		return nil, RetrieveOutput{}, fmt.Errorf("%w: domain is required", domain.ErrInvalidInput)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = domain.DefaultTopK
	}

	results, err := s.ports.Knowledge.Search(ctx, domain.Domain(input.Domain), input.Query, limit)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Results: make([]RetrieveResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = RetrieveResultOutput{
			Source:   results[i].Source,
			Position: results[i].Position,
			Score:    results[i].Score,
			Text:     results[i].Text,
		}
	}

	return nil, output, nil
}
