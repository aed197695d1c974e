package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"classreport/internal/record"
)

var errBadRequest = errors.New("invalid request")

// filterRequest is a decoded filter body: dimension constraints plus the
// optional paging fields of the detail endpoint.
type filterRequest struct {
	criteria *record.Criteria
	page     int
	pageSize int
}

var pagingKeys = map[string]string{
	"page":      "page",
	"pageSize":  "pageSize",
	"page_size": "pageSize",
}

// decodeFilter reads an optional JSON object of string filters. Keys are
// dimension names (camelCase or snake_case) or "status"; null and empty
// values leave a dimension open.
func decodeFilter(c *gin.Context) (filterRequest, error) {
	req := filterRequest{criteria: record.NewCriteria()}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(c.Request.Body).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return req, nil
		}
		return req, fmt.Errorf("%w: %v", errBadRequest, err)
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		if p, ok := pagingKeys[k]; ok {
			var n int
			if err := json.Unmarshal(v, &n); err != nil {
				return req, fmt.Errorf("%w: %s must be an integer", errBadRequest, k)
			}
			if p == "page" {
				req.page = n
			} else {
				req.pageSize = n
			}
			continue
		}
		var s *string
		if err := json.Unmarshal(v, &s); err != nil {
			return req, fmt.Errorf("%w: %s must be a string", errBadRequest, k)
		}
		if s != nil {
			fields[k] = *s
		}
	}

	criteria, err := record.CriteriaFromMap(fields)
	if err != nil {
		return req, err
	}
	req.criteria = criteria
	return req, nil
}

// statusFor maps an error to the HTTP status it is reported with.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest),
		errors.Is(err, record.ErrUnknownDimension),
		errors.Is(err, record.ErrMissingField),
		errors.Is(err, record.ErrValueOutOfRange),
		errors.Is(err, record.ErrInvalidStatus),
		errors.Is(err, record.ErrStatusMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.log.Error("request failed", "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(code, gin.H{"error": err.Error()})
}
