package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"classreport/internal/format"
	"classreport/internal/record"
	"classreport/internal/render"
	"classreport/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// optionKeys names each dimension in the filter options response.
var optionKeys = map[record.Dimension]string{
	record.UseCase:           "useCases",
	record.Scenario:          "scenarios",
	record.Vertical:          "verticals",
	record.Factor:            "factors",
	record.FactorValue:       "factorValues",
	record.PrimaryCategory:   "primaryCategories",
	record.SecondaryCategory: "secondaryCategories",
}

type uploadRequest struct {
	Records *[]record.Record `json:"records"`
}

// Upload validates every record in the body and replaces the store
// contents in one step. Nothing is stored if any record is rejected.
func (s *Server) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxUploadBytes)

	var req uploadRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		s.fail(c, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	if req.Records == nil {
		s.fail(c, fmt.Errorf("%w: body must contain a records array", errBadRequest))
		return
	}
	if err := s.store.Replace(*req.Records); err != nil {
		s.fail(c, err)
		return
	}

	n := len(*req.Records)
	batch := uuid.NewString()
	s.metrics.ObserveUpload(s.store.Len())
	s.log.Info("records uploaded", "batch_id", batch, "count", n)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("uploaded %d records", n),
		"batchId": batch,
		"count":   n,
	})
}

// FilterOptions returns the distinct values of every dimension.
func (s *Server) FilterOptions(c *gin.Context) {
	opts := s.store.Options()
	out := make(gin.H, len(opts))
	for d, values := range opts {
		if values == nil {
			values = []string{}
		}
		out[optionKeys[d]] = values
	}
	c.JSON(http.StatusOK, out)
}

// build decodes the filter body and assembles a report. It writes the
// response itself and returns ok false on error or no match.
func (s *Server) build(c *gin.Context) (*report.Report, bool) {
	req, err := decodeFilter(c)
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	rep, ok := report.Build(s.store, req.criteria, s.agg)
	s.metrics.ObserveReport(ok)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": report.NoMatchMessage})
		return nil, false
	}
	return rep, true
}

// GenerateReport returns the overall matrix, per-category matrices and
// summary for the filtered records.
func (s *Server) GenerateReport(c *gin.Context) {
	rep, ok := s.build(c)
	if !ok {
		return
	}
	s.metrics.ObserveExport("json")
	c.JSON(http.StatusOK, gin.H{"success": true, "data": rep})
}

// ReportText renders the report as text; ?format= selects ascii (default),
// markdown or csv.
func (s *Server) ReportText(c *gin.Context) {
	mode, err := format.ParseMode(c.Query("format"))
	if err != nil {
		s.fail(c, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	rep, ok := s.build(c)
	if !ok {
		return
	}
	contentType := "text/plain; charset=utf-8"
	switch mode {
	case format.Markdown:
		contentType = "text/markdown; charset=utf-8"
	case format.CSV:
		contentType = "text/csv; charset=utf-8"
	}
	s.metrics.ObserveExport(mode.String())
	c.Data(http.StatusOK, contentType, []byte(render.Text(rep, mode)))
}

// ExportExcel returns the full report workbook as an attachment.
func (s *Server) ExportExcel(c *gin.Context) {
	rep, ok := s.build(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render.RenderWorkbook(&buf, rep, render.WorkbookOptions{SheetNameLimit: s.opts.SheetNameLimit}); err != nil {
		s.fail(c, err)
		return
	}
	s.metrics.ObserveExport("xlsx")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", ExportFileName(time.Now())))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportFileName is the download name for a workbook generated at t.
func ExportFileName(t time.Time) string {
	return "classification_report_" + t.Format("20060102_150405") + ".xlsx"
}

// Detail returns one page of the filtered records.
func (s *Server) Detail(c *gin.Context) {
	req, err := decodeFilter(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	page, size, err := s.paging(req)
	if err != nil {
		s.fail(c, err)
		return
	}

	p := report.Paginate(s.store.Filter(req.criteria), page, size)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       p.Records,
		"total":      p.Total,
		"page":       p.Page,
		"pageSize":   p.PageSize,
		"totalPages": p.TotalPages,
	})
}

func (s *Server) paging(req filterRequest) (page, size int, err error) {
	page, size = req.page, req.pageSize
	if page == 0 {
		page = 1
	}
	if size == 0 {
		size = s.opts.DefaultPageSize
	}
	if page < 0 || size < 0 {
		return 0, 0, fmt.Errorf("%w: page and pageSize must be positive", errBadRequest)
	}
	return page, min(size, s.opts.MaxPageSize), nil
}

// Health reports liveness and the store size.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"records": s.store.Len(),
	})
}
