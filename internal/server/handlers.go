package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"dubboard/internal/fileutil"
	"dubboard/internal/history"
	"dubboard/internal/language"
	"dubboard/internal/pipeline"
	"dubboard/internal/services"
)

type statusResponse struct {
	Running       bool               `json:"running"`
	OutputDir     string             `json:"output_dir"`
	HistoryDBPath string             `json:"history_db_path"`
	Completed     int                `json:"completed"`
	Failed        int                `json:"failed"`
	Dependencies  []dependencyStatus `json:"dependencies"`
}

type dependencyStatus struct {
	Name      string `json:"name"`
	Command   string `json:"command"`
	Optional  bool   `json:"optional"`
	Available bool   `json:"available"`
	Detail    string `json:"detail,omitempty"`
}

type translateRequest struct {
	URL      string `json:"url"`
	Language string `json:"language"`
	Name     string `json:"name,omitempty"`
}

type translateResponse struct {
	JobID            string  `json:"job_id"`
	OutputPath       string  `json:"output_path"`
	DetectedLanguage string  `json:"detected_language"`
	Segments         int     `json:"segments"`
	Translated       int     `json:"translated"`
	DurationSeconds  float64 `json:"duration_seconds"`
}

type jobEntry struct {
	JobID           string  `json:"job_id"`
	URL             string  `json:"url"`
	TargetLang      string  `json:"target_lang"`
	Status          string  `json:"status"`
	Stage           string  `json:"stage"`
	OutputPath      string  `json:"output_path,omitempty"`
	ErrorKind       string  `json:"error_kind,omitempty"`
	Error           string  `json:"error,omitempty"`
	Segments        int     `json:"segments"`
	Translated      int     `json:"translated"`
	StartedAt       string  `json:"started_at"`
	DurationSeconds float64 `json:"duration_seconds"`
}

type outputEntry struct {
	Name     string `json:"name"`
	Size     int64  `json:"size_bytes"`
	SizeText string `json:"size"`
	Modified string `json:"modified"`
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	result, err := s.pipe.Run(r.Context(), pipeline.Request{
		URL:            req.URL,
		TargetLanguage: req.Language,
		Name:           req.Name,
	})
	if err != nil {
		s.writeJSON(w, translateErrorStatus(err), map[string]string{
			"error": err.Error(),
			"kind":  services.Kind(err),
		})
		return
	}
	s.writeJSON(w, http.StatusOK, translateResponse{
		JobID:            result.JobID,
		OutputPath:       result.OutputPath,
		DetectedLanguage: result.DetectedLanguage,
		Segments:         result.Segments,
		Translated:       result.Translated,
		DurationSeconds:  result.Duration.Seconds(),
	})
}

// translateErrorStatus maps pipeline failures onto HTTP statuses: caller
// mistakes are 4xx, everything that happened past validation is a 502
// because an external tool or service is what actually failed.
func translateErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, services.ErrConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrDownload):
		return http.StatusBadGateway
	case errors.Is(err, services.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit := 50
	if value := r.URL.Query().Get("limit"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}
	store := s.pipe.History()
	if store == nil {
		s.writeJSON(w, http.StatusOK, map[string]any{"jobs": []jobEntry{}})
		return
	}
	runs, err := store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	entries := make([]jobEntry, 0, len(runs))
	for _, run := range runs {
		entries = append(entries, jobEntryFromRun(run))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"jobs": entries})
}

func jobEntryFromRun(run history.Run) jobEntry {
	return jobEntry{
		JobID:           run.JobID,
		URL:             run.URL,
		TargetLang:      run.TargetLang,
		Status:          run.Status,
		Stage:           run.Stage,
		OutputPath:      run.OutputPath,
		ErrorKind:       run.ErrorKind,
		Error:           run.Error,
		Segments:        run.Segments,
		Translated:      run.Translated,
		StartedAt:       run.StartedAt.UTC().Format(time.RFC3339),
		DurationSeconds: run.Duration.Seconds(),
	}
}

func (s *Server) handleOutputs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	entries, err := listOutputs(s.cfg.Paths.OutputDir)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"outputs": entries})
}

func listOutputs(dir string) ([]outputEntry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []outputEntry{}, nil
		}
		return nil, err
	}
	outputs := make([]outputEntry, 0, len(dirEntries))
	for _, entry := range dirEntries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		outputs = append(outputs, outputEntry{
			Name:     entry.Name(),
			Size:     info.Size(),
			SizeText: fileutil.FormatSize(info.Size()),
			Modified: info.ModTime().UTC().Format(time.RFC3339),
		})
	}
	sort.Slice(outputs, func(i, j int) bool {
		return outputs[i].Modified > outputs[j].Modified
	})
	return outputs, nil
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"languages": language.SupportedSorted()})
}

// handleOutputFile streams a single translated video. Only plain file names
// directly inside the output directory are served.
func (s *Server) handleOutputFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/outputs/")
	if name == "" || strings.ContainsAny(name, "/\\") || name != filepath.Base(name) {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	path := filepath.Join(s.cfg.Paths.OutputDir, name)
	if _, err := os.Stat(path); err != nil {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	http.ServeFile(w, r, path)
}
