package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ginjaninja78/vendor-normalizer/internal/chart"
	"github.com/ginjaninja78/vendor-normalizer/internal/converter"
	"github.com/ginjaninja78/vendor-normalizer/internal/export"
	"github.com/ginjaninja78/vendor-normalizer/internal/mapping"
	"github.com/ginjaninja78/vendor-normalizer/internal/normalizer"
	"github.com/ginjaninja78/vendor-normalizer/internal/schema"
	"github.com/ginjaninja78/vendor-normalizer/internal/session"
	"github.com/ginjaninja78/vendor-normalizer/internal/types"
	"github.com/ginjaninja78/vendor-normalizer/internal/vendorfile"
)

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// SessionView is the JSON view of a session.
type SessionView struct {
	SessionID          string              `json:"session_id"`
	FileName           string              `json:"file_name"`
	Columns            []string            `json:"columns"`
	RowCount           int                 `json:"row_count"`
	Preview            []types.Row         `json:"preview"`
	Fields             []schema.Field      `json:"fields"`
	Mapping            map[string]string   `json:"mapping"`
	Missing            []schema.Field      `json:"missing"`
	Complete           bool                `json:"complete"`
	OptionalCandidates []string            `json:"optional_candidates"`
	Optional           []string            `json:"optional"`
	SharedColumns      map[string][]string `json:"shared_columns,omitempty"`
}

// NormalizedView is the JSON view of a normalized preview.
type NormalizedView struct {
	Fields  []string           `json:"fields"`
	Rows    []types.Row        `json:"rows"`
	Summary normalizer.Summary `json:"summary"`
	Message string             `json:"message"`
}

type columnRequest struct {
	Column string `json:"column"`
}

func (s *Server) view(id string, ws converter.Workspace) SessionView {
	state := ws.State()
	table := ws.Table()

	preview := table.Head(s.cfg.Server.PreviewRows)
	if preview == nil {
		preview = []types.Row{}
	}

	return SessionView{
		SessionID:          id,
		FileName:           table.Source,
		Columns:            nonNil(table.Columns),
		RowCount:           table.RowCount(),
		Preview:            preview,
		Fields:             state.Registry().Fields(),
		Mapping:            state.RequiredMapping(),
		Missing:            nonNilFields(state.Missing()),
		Complete:           state.IsComplete(),
		OptionalCandidates: nonNil(state.OptionalCandidates()),
		Optional:           nonNil(state.Optional()),
		SharedColumns:      state.DuplicateTargets(),
	}
}

// =============================================================================
// ERROR RESPONSES
// =============================================================================

// fail writes err with the status its type calls for.
func (s *Server) fail(c *gin.Context, err error) {
	var incomplete *converter.IncompleteError
	switch {
	case errors.As(err, &incomplete):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "missing": incomplete.Missing})
	case errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		s.logger.Error("Request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func badRequest(c *gin.Context, format string, args ...interface{}) {
	c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf(format, args...)})
}

// =============================================================================
// UPLOAD AND SESSION HANDLERS
// =============================================================================

// Upload parses a vendor file and opens a session for it.
// POST /api/uploads (multipart field "file")
func (s *Server) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(s.cfg.Server.MaxUploadMB)<<20)

	header, err := c.FormFile("file")
	if err != nil {
		CounterUploads.WithLabelValues("error").Inc()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": fmt.Sprintf("upload exceeds %d MB", s.cfg.Server.MaxUploadMB),
			})
			return
		}
		badRequest(c, "missing upload field \"file\": %v", err)
		return
	}

	f, err := header.Open()
	if err != nil {
		CounterUploads.WithLabelValues("error").Inc()
		badRequest(c, "cannot read upload: %v", err)
		return
	}
	defer f.Close()

	table, err := vendorfile.ParseReader(f, header.Filename, s.cfg.Input)
	if err != nil {
		CounterUploads.WithLabelValues("error").Inc()
		badRequest(c, "cannot parse %s: %v", header.Filename, err)
		return
	}

	ws := converter.Load(table, s.strategies.Registry, s.strategies.Matcher)
	id := s.sessions.Create(ws)
	CounterUploads.WithLabelValues("ok").Inc()
	GaugeSessions.Set(float64(s.sessions.Len()))

	s.logger.Info("Session %s: %s, %d rows, %d columns", id, table.Source, table.RowCount(), len(table.Columns))
	c.JSON(http.StatusCreated, s.view(id, ws))
}

// GetSession returns the current session view.
// GET /api/sessions/:id
func (s *Server) GetSession(c *gin.Context) {
	id := c.Param("id")
	ws, err := s.sessions.Get(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.view(id, ws))
}

// DeleteSession drops a session.
// DELETE /api/sessions/:id
func (s *Server) DeleteSession(c *gin.Context) {
	if err := s.sessions.Delete(c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	GaugeSessions.Set(float64(s.sessions.Len()))
	c.Status(http.StatusNoContent)
}

// SetMapping points a required field at a column. "__none__" or "" unmaps.
// PUT /api/sessions/:id/mapping/:field {"column": "..."}
func (s *Server) SetMapping(c *gin.Context) {
	field := c.Param("field")
	if !s.strategies.Registry.Has(field) {
		badRequest(c, "unknown field %q", field)
		return
	}

	var req columnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body: %v", err)
		return
	}

	s.update(c, func(ws converter.Workspace) (converter.Workspace, error) {
		if req.Column != "" && req.Column != mapping.None && !ws.Table().HasColumn(req.Column) {
			return ws, errBadColumn(req.Column)
		}
		return ws.SetRequired(field, req.Column), nil
	})
}

// ToggleOptional adds or removes an optional column.
// POST /api/sessions/:id/optional/toggle {"column": "..."}
func (s *Server) ToggleOptional(c *gin.Context) {
	var req columnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body: %v", err)
		return
	}

	s.update(c, func(ws converter.Workspace) (converter.Workspace, error) {
		if !ws.Table().HasColumn(req.Column) {
			return ws, errBadColumn(req.Column)
		}
		return ws.ToggleOptional(req.Column), nil
	})
}

// SelectAllOptional selects every column not used by a required field.
// POST /api/sessions/:id/optional/all
func (s *Server) SelectAllOptional(c *gin.Context) {
	s.update(c, func(ws converter.Workspace) (converter.Workspace, error) {
		return ws.SelectAllOptional(), nil
	})
}

// SelectNoneOptional clears the optional selection.
// POST /api/sessions/:id/optional/none
func (s *Server) SelectNoneOptional(c *gin.Context) {
	s.update(c, func(ws converter.Workspace) (converter.Workspace, error) {
		return ws.SelectNoneOptional(), nil
	})
}

// update applies fn to the session and answers with the new view.
func (s *Server) update(c *gin.Context, fn func(converter.Workspace) (converter.Workspace, error)) {
	id := c.Param("id")
	ws, err := s.sessions.Update(id, fn)
	if err != nil {
		var bad badColumnError
		if errors.As(err, &bad) {
			badRequest(c, "%v", err)
			return
		}
		s.fail(c, err)
		return
	}

	for col, keys := range ws.State().DuplicateTargets() {
		s.logger.Warn("Session %s: column %q feeds several fields: %v", id, col, keys)
	}
	c.JSON(http.StatusOK, s.view(id, ws))
}

// =============================================================================
// DERIVED DATA HANDLERS
// =============================================================================

// Normalized returns the first rows of the normalized data and the export
// summary.
// GET /api/sessions/:id/normalized?limit=N
func (s *Server) Normalized(c *gin.Context) {
	limit := s.cfg.Server.PreviewRows
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(c, "limit must be a positive integer")
			return
		}
		limit = n
	}

	ws, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	ds, err := ws.Normalize()
	if err != nil {
		s.fail(c, err)
		return
	}

	preview := normalizer.Preview(ds, limit)
	summary := normalizer.Summarize(ds)
	c.JSON(http.StatusOK, NormalizedView{
		Fields:  preview.Fields,
		Rows:    preview.Rows,
		Summary: summary,
		Message: fmt.Sprintf("%d rows will be exported with %d fields", summary.Rows, summary.Fields),
	})
}

// Export streams the normalized CSV as an attachment.
// GET /api/sessions/:id/export
func (s *Server) Export(c *gin.Context) {
	ws, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	ds, err := ws.Normalize()
	if err != nil {
		s.fail(c, err)
		return
	}

	name := export.FileName(s.cfg.OutputNameFormat, ws.Table().Source, ".csv")
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Status(http.StatusOK)

	if err := export.WriteCSV(c.Writer, ds); err != nil {
		s.logger.Error("Export of %s failed: %v", name, err)
		return
	}
	CounterExports.Inc()
	CounterRowsNormalized.Add(float64(ds.Len()))
}

// Fields classifies the normalized fields.
// GET /api/sessions/:id/fields
func (s *Server) Fields(c *gin.Context) {
	ws, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	fields, err := ws.Fields(s.strategies.Classifier)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, fields)
}

// Chart aggregates valueField by keyField.
// GET /api/sessions/:id/chart?key=&value=&type=
func (s *Server) Chart(c *gin.Context) {
	t, err := chart.ParseType(c.DefaultQuery("type", s.cfg.Chart.Type))
	if err != nil {
		badRequest(c, "%v", err)
		return
	}

	ws, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}

	key, value := c.Query("key"), c.Query("value")
	if ws.IsComplete() {
		fields := ws.State().Fields()
		for _, f := range []string{key, value} {
			if f != "" && !contains(fields, f) {
				badRequest(c, "unknown field %q", f)
				return
			}
		}
	}

	out, err := ws.Chart(t, key, value)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// =============================================================================
// HELPERS
// =============================================================================

type badColumnError struct {
	column string
}

func (e badColumnError) Error() string {
	return fmt.Sprintf("unknown column %q", e.column)
}

func errBadColumn(column string) error {
	return badColumnError{column: column}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilFields(f []schema.Field) []schema.Field {
	if f == nil {
		return []schema.Field{}
	}
	return f
}
