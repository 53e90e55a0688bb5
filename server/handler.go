package server

import (
	"agent-staffing/formatter"
	"agent-staffing/service"
	_ "embed"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

//go:embed static/index.html
var indexHTML []byte

// uploadField is the multipart field carrying the demand file.
const uploadField = "file"

// handleSchedule accepts a multipart upload of a demand file plus optional
// utilization and capacity form values, and returns the JSON schedule.
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxBytes)
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge), strings.Contains(err.Error(), "request body too large"):
			writeError(w, r, http.StatusRequestEntityTooLarge, codePayloadTooLarge, "uploaded file is too large")
		case errors.Is(err, http.ErrNotMultipart):
			writeError(w, r, http.StatusBadRequest, codeInvalidRequest, "request must be multipart/form-data")
		default:
			writeError(w, r, http.StatusBadRequest, codeInvalidRequest, "invalid multipart form: "+err.Error())
		}
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, codeMissingFile, "missing file upload")
		return
	}
	defer file.Close()
	if header.Filename == "" {
		writeError(w, r, http.StatusBadRequest, codeMissingFile, "empty filename")
		return
	}

	opts := service.Options{
		Utilization: s.cfg.Schedule.DefaultUtilization,
		Capacity:    s.cfg.Schedule.Capacity,
	}
	if raw := strings.TrimSpace(r.FormValue("utilization")); raw != "" {
		u, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, codeInvalidUtilization, "invalid utilization")
			return
		}
		opts.Utilization = u
	}
	if raw := strings.TrimSpace(r.FormValue("capacity")); raw != "" {
		c, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, codeInvalidCapacity, "invalid capacity")
			return
		}
		opts.Capacity = c
	}

	schedule, err := s.planner.Build(file, opts)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(formatter.FormatJSON(schedule)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(indexHTML)
}
