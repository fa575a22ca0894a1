package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/nivedm/datasentry/internal/dataset"
	"github.com/nivedm/datasentry/internal/deid"
	"github.com/nivedm/datasentry/internal/events"
	"github.com/nivedm/datasentry/internal/pii"
	"github.com/nivedm/datasentry/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleInfo handles info requests
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":             "datasentry",
		"version":          "0.1.0",
		"privacy_enabled":  s.config.Privacy.Enabled,
		"default_strategy": s.config.Privacy.Strategy,
		"detectors":        s.config.Privacy.Detectors,
		"strategies":       deid.Strategies,
		"cache_enabled":    s.config.Cache.Enabled,
		"store_enabled":    s.config.Store.Enabled,
	})
}

type detectRequest struct {
	Text string `json:"text"`
}

type detectResponse struct {
	Matches     []pii.Match `json:"matches"`
	Valid       []bool      `json:"valid"`
	HasValidPII bool        `json:"has_valid_pii"`
}

// handleDetect scans a text value and reports candidates with their
// validation outcomes.
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp := detectResponse{Matches: []pii.Match{}, Valid: []bool{}}
	for _, m := range pii.Detect(req.Text) {
		if !s.typeEnabled(m.Type) {
			continue
		}
		valid := pii.IsValid(m.Type, m.Value)
		resp.Matches = append(resp.Matches, m)
		resp.Valid = append(resp.Valid, valid)
		if valid {
			resp.HasValidPII = true
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

type deidentifyRequest struct {
	Text     string `json:"text"`
	Strategy string `json:"strategy,omitempty"`
	RunID    string `json:"run_id,omitempty"`
}

type deidentifyResponse struct {
	Text       string      `json:"text"`
	Strategy   string      `json:"strategy"`
	RunID      string      `json:"run_id,omitempty"`
	Detections []pii.Match `json:"detections"`
}

// handleDeidentify rewrites confirmed PII in a text value. A run_id groups
// requests into one session so pseudonyms stay consistent across calls.
func (s *Server) handleDeidentify(w http.ResponseWriter, r *http.Request) {
	var req deidentifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	strategy, ok := s.resolveStrategy(req.Strategy)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown strategy: "+req.Strategy)
		return
	}

	session := s.session(req.RunID)

	rewritten, confirmed := rewriteText(req.Text, session, strategy, s.typeEnabled)
	for _, m := range confirmed {
		s.hub.Publish(events.EventTypeDetection, events.DetectionEvent{
			RunID:    req.RunID,
			PIIType:  string(m.Type),
			Strategy: string(strategy),
			Outcome:  "replaced",
		})
	}

	writeJSON(w, http.StatusOK, deidentifyResponse{
		Text:       rewritten,
		Strategy:   string(strategy),
		RunID:      req.RunID,
		Detections: confirmed,
	})
}

// rewriteText replaces validator-confirmed matches longest first, skipping
// matches contained in an already-replaced string.
func rewriteText(text string, session *deid.Session, strategy deid.Strategy, enabled func(pii.Type) bool) (string, []pii.Match) {
	matches := pii.Detect(text)
	sort.SliceStable(matches, func(i, j int) bool {
		return len(matches[i].Value) > len(matches[j].Value)
	})

	rewritten := text
	var confirmed []pii.Match
	var done []string
	for _, m := range matches {
		if !enabled(m.Type) {
			continue
		}
		contained := false
		for _, prev := range done {
			if strings.Contains(prev, m.Value) {
				contained = true
				break
			}
		}
		if contained || !pii.IsValid(m.Type, m.Value) {
			continue
		}

		replacement := session.Apply(strategy, m.Type, m.Value)
		rewritten = strings.ReplaceAll(rewritten, m.Value, replacement)
		done = append(done, m.Value)
		confirmed = append(confirmed, m)
	}
	return rewritten, confirmed
}

type datasetResponse struct {
	RunID        string          `json:"run_id"`
	FileName     string          `json:"file_name"`
	Strategy     string          `json:"strategy"`
	Summary      dataset.Summary `json:"summary"`
	Grade        string          `json:"grade"`
	Replacements int             `json:"replacements"`
	ColumnCounts map[string]int  `json:"column_counts"`
	Table        *dataset.Table  `json:"table"`
}

// handleDataset accepts a multipart dataset upload, de-identifies every
// cell and reports the accuracy summary.
func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.config.Server.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	strategy, ok := s.resolveStrategy(r.FormValue("strategy"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown strategy: "+r.FormValue("strategy"))
		return
	}

	if dataset.DetectFormat(header.Filename) == dataset.FormatUnknown {
		writeError(w, http.StatusBadRequest, "unsupported file format: "+filepath.Ext(header.Filename))
		return
	}

	// Spool the upload to disk; the Parquet reader needs a seekable file.
	tmp, err := os.CreateTemp("", "datasentry-upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to buffer upload")
		return
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to buffer upload")
		return
	}

	table, err := dataset.ReadTable(tmp.Name())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	runID := uuid.New()
	runLogger := s.logger.WithRunID(runID.String())

	s.hub.Publish(events.EventTypeRunProgress, events.RunProgressEvent{
		RunID:      runID.String(),
		FileName:   header.Filename,
		Phase:      "started",
		CellsTotal: len(table.Rows) * len(table.Columns),
	})

	processor := dataset.NewProcessor(dataset.Options{
		Strategy: strategy,
		Types:    s.enabledTypes(),
		Cache:    s.scanner(),
		OnCell: func(rec dataset.CellRecord) {
			if rec.Outcome == dataset.OutcomeTP {
				s.hub.Publish(events.EventTypeDetection, events.DetectionEvent{
					RunID:    runID.String(),
					PIIType:  detectionType(rec),
					Column:   rec.Column,
					Row:      rec.Row,
					Strategy: string(strategy),
					Outcome:  string(rec.Outcome),
				})
			}
		},
	}, runLogger.Logger)

	result, err := processor.Process(r.Context(), table)
	if err != nil {
		s.hub.Publish(events.EventTypeRunProgress, events.RunProgressEvent{
			RunID: runID.String(),
			Phase: "failed",
			Error: err.Error(),
		})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summary := dataset.Summarize(result.Counts)

	s.hub.Publish(events.EventTypeRunProgress, events.RunProgressEvent{
		RunID:        runID.String(),
		FileName:     header.Filename,
		Phase:        "completed",
		CellsDone:    summary.TotalSamples,
		CellsTotal:   summary.TotalSamples,
		Replacements: result.Replacements,
	})

	if s.store != nil {
		columnCounts, _ := json.Marshal(result.ColumnCounts)
		run := &store.Run{
			ID:           runID,
			FileName:     header.Filename,
			Strategy:     strategy,
			Rows:         len(table.Rows),
			Columns:      len(table.Columns),
			TP:           result.Counts.TP,
			TN:           result.Counts.TN,
			FP:           result.Counts.FP,
			FN:           result.Counts.FN,
			Replacements: result.Replacements,
			ColumnCounts: columnCounts,
		}
		if err := s.store.SaveRun(r.Context(), run); err != nil {
			runLogger.Error("Failed to persist run", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, datasetResponse{
		RunID:        runID.String(),
		FileName:     header.Filename,
		Strategy:     string(strategy),
		Summary:      summary,
		Grade:        dataset.Grade(summary.Accuracy),
		Replacements: result.Replacements,
		ColumnCounts: result.ColumnCounts,
		Table:        result.Table,
	})
}

// handleListRuns returns recent persisted runs.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "run store is not enabled")
		return
	}

	runs, err := s.store.ListRuns(r.Context(), 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

// handleGetRun returns one persisted run by ID.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "run store is not enabled")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run ID")
		return
	}

	run, err := s.store.GetRun(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summary := dataset.Summarize(run.Counts())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run":     run,
		"summary": summary,
		"grade":   dataset.Grade(summary.Accuracy),
	})
}

// handleCacheStats returns scan cache counters.
func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		writeError(w, http.StatusServiceUnavailable, "cache is not enabled")
		return
	}

	stats, err := s.cache.GetStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// resolveStrategy parses a strategy name, falling back to the configured
// default when empty.
func (s *Server) resolveStrategy(name string) (deid.Strategy, bool) {
	if name == "" {
		name = s.config.Privacy.Strategy
	}
	return deid.ParseStrategy(name)
}

// typeEnabled reports whether a PII type is active under the configured
// detector list.
func (s *Server) typeEnabled(t pii.Type) bool {
	types := s.enabledTypes()
	if types == nil {
		return true
	}
	for _, enabled := range types {
		if enabled == t {
			return true
		}
	}
	return false
}

func detectionType(rec dataset.CellRecord) string {
	if len(rec.Detections) > 0 {
		return string(rec.Detections[0].Type)
	}
	return ""
}
