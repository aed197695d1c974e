// Package mcp exposes the record store and report engine as MCP tools.
package mcp

import (
	"context"
	"fmt"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"classreport/internal/dataset"
	"classreport/internal/format"
	"classreport/internal/logging"
	"classreport/internal/matrix"
	"classreport/internal/record"
	"classreport/internal/render"
	"classreport/internal/report"
)

// DefaultPageSize applies when list_records omits page_size.
var DefaultPageSize = 50

// MaxPageSize caps list_records page_size.
var MaxPageSize = 500

// Server wraps the MCP SDK server around a shared record store.
type Server struct {
	MCPServer *sdkmcp.Server

	store *record.Store
	agg   matrix.Aggregator
}

// NewServer creates an MCP server whose tools read and replace store.
func NewServer(store *record.Store, version string) *Server {
	s := &Server{
		store: store,
		agg:   matrix.New(store.Validator().Classes),
	}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "classreport", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves over stdio until ctx is canceled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "load_records",
		Description: "Load classification records from a JSON, YAML or CSV file or a directory of them. Replaces the store unless append is set.",
	}, s.handleLoadRecords)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "filter_options",
		Description: "List the distinct values of each filter dimension, or of one dimension.",
	}, s.handleFilterOptions)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "build_report",
		Description: "Build the confusion-matrix report for the records matching the filters. Returns the rendered text plus the summary and overall matrix.",
	}, s.handleBuildReport)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_records",
		Description: "List one page of the records matching the filters.",
	}, s.handleListRecords)
}

// --- Tool input/output types ---

type loadRecordsInput struct {
	Path   string `json:"path" jsonschema:"file or directory of .json, .jsonl, .yaml, .yml or .csv record files"`
	Append bool   `json:"append,omitempty" jsonschema:"add to the current records instead of replacing them"`
}

type loadRecordsOutput struct {
	Loaded int `json:"loaded"`
	Total  int `json:"total"`
}

type filterOptionsInput struct {
	Dimension string `json:"dimension,omitempty" jsonschema:"restrict to one dimension (useCase, scenario, vertical, factor, factorValue, primaryCategory, secondaryCategory)"`
}

type filterOptionsOutput struct {
	Options map[string][]string `json:"options"`
}

type buildReportInput struct {
	Filters map[string]string `json:"filters,omitempty" jsonschema:"dimension name to required value; status may be pass or fail"`
	Format  string            `json:"format,omitempty" jsonschema:"text layout: ascii (default), markdown or csv"`
}

type buildReportOutput struct {
	Matched     bool                    `json:"matched"`
	Message     string                  `json:"message,omitempty"`
	Filter      map[string]string       `json:"filter"`
	Text        string                  `json:"text"`
	GeneratedAt string                  `json:"generated_at,omitempty"`
	Summary     *matrix.Summary         `json:"summary,omitempty"`
	Overall     *matrix.ConfusionMatrix `json:"overall,omitempty"`
	Categories  []string                `json:"categories,omitempty"`
}

type listRecordsInput struct {
	Filters  map[string]string `json:"filters,omitempty" jsonschema:"dimension name to required value; status may be pass or fail"`
	Page     int               `json:"page,omitempty" jsonschema:"1-based page number (default 1)"`
	PageSize int               `json:"page_size,omitempty" jsonschema:"records per page (default 50, max 500)"`
}

type listRecordsOutput struct {
	Records    []record.Record `json:"records"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// --- Tool handlers ---

func (s *Server) handleLoadRecords(_ context.Context, _ *sdkmcp.CallToolRequest, input loadRecordsInput) (*sdkmcp.CallToolResult, loadRecordsOutput, error) {
	if input.Path == "" {
		return nil, loadRecordsOutput{}, fmt.Errorf("load_records: path is required")
	}
	records, err := dataset.Load(input.Path, s.store.Validator())
	if err != nil {
		return nil, loadRecordsOutput{}, fmt.Errorf("load_records: %w", err)
	}
	if input.Append {
		err = s.store.AddAll(records)
	} else {
		err = s.store.Replace(records)
	}
	if err != nil {
		return nil, loadRecordsOutput{}, fmt.Errorf("load_records: %w", err)
	}
	logging.New("mcp").Info("records loaded", "path", input.Path, "count", len(records), "append", input.Append)
	return nil, loadRecordsOutput{Loaded: len(records), Total: s.store.Len()}, nil
}

func (s *Server) handleFilterOptions(_ context.Context, _ *sdkmcp.CallToolRequest, input filterOptionsInput) (*sdkmcp.CallToolResult, filterOptionsOutput, error) {
	out := filterOptionsOutput{Options: make(map[string][]string)}
	if input.Dimension != "" {
		values, err := s.store.DistinctValues(input.Dimension)
		if err != nil {
			return nil, filterOptionsOutput{}, err
		}
		d, _ := record.ParseDimension(input.Dimension)
		out.Options[d.String()] = nonNil(values)
		return nil, out, nil
	}
	for d, values := range s.store.Options() {
		out.Options[d.String()] = nonNil(values)
	}
	return nil, out, nil
}

func (s *Server) handleBuildReport(_ context.Context, _ *sdkmcp.CallToolRequest, input buildReportInput) (*sdkmcp.CallToolResult, buildReportOutput, error) {
	mode, err := format.ParseMode(input.Format)
	if err != nil {
		return nil, buildReportOutput{}, err
	}
	criteria, err := record.CriteriaFromMap(input.Filters)
	if err != nil {
		return nil, buildReportOutput{}, err
	}
	rep, ok := report.Build(s.store, criteria, s.agg)
	if !ok {
		return nil, buildReportOutput{
			Matched: false,
			Message: report.NoMatchMessage,
			Filter:  criteria.Fields(),
			Text:    render.NoMatch(mode),
		}, nil
	}
	return nil, buildReportOutput{
		Matched:     true,
		Filter:      rep.Filter,
		Text:        render.Text(rep, mode),
		GeneratedAt: rep.GeneratedAt.Format(time.RFC3339),
		Summary:     &rep.Summary,
		Overall:     rep.Overall,
		Categories:  rep.ByPrimaryCategory.Categories(),
	}, nil
}

func (s *Server) handleListRecords(_ context.Context, _ *sdkmcp.CallToolRequest, input listRecordsInput) (*sdkmcp.CallToolResult, listRecordsOutput, error) {
	criteria, err := record.CriteriaFromMap(input.Filters)
	if err != nil {
		return nil, listRecordsOutput{}, err
	}
	page, size := input.Page, input.PageSize
	if page < 0 || size < 0 {
		return nil, listRecordsOutput{}, fmt.Errorf("list_records: page and page_size must be positive")
	}
	if page == 0 {
		page = 1
	}
	if size == 0 {
		size = DefaultPageSize
	}
	size = min(size, MaxPageSize)

	p := report.Paginate(s.store.Filter(criteria), page, size)
	return nil, listRecordsOutput{
		Records:    p.Records,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
	}, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
