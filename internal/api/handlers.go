// Package api exposes HTTP handlers for the heart-rate monitor.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"example.com/heartmonitor/internal/chart"
	"example.com/heartmonitor/internal/domain"
	"example.com/heartmonitor/internal/observability"
)

// Entry point labels used for metrics.
const (
	entrypointBody = "body"
	entrypointPath = "path"
)

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
	logger  *log.Logger
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(log.Writer(), "[api] ", log.LstdFlags|log.Lshortfile)
	}
	return &Handler{service: service, logger: logger}
}

// NewRouter returns a router with every endpoint registered.
func (h *Handler) NewRouter() *mux.Router {
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes wires endpoints to the router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/get_data", h.getData).Methods(http.MethodGet)
	r.HandleFunc("/api/add_data", h.addData).Methods(http.MethodPost)
	r.HandleFunc("/api/add_data/{heart_rate}", h.addCurrent).Methods(http.MethodGet)
	r.HandleFunc("/api/anomalies", h.anomalies).Methods(http.MethodGet)
	r.HandleFunc("/chart", h.chart).Methods(http.MethodGet)
	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) getData(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toSeriesResponse(h.service.Series(r.Context())))
}

func (h *Handler) addData(w http.ResponseWriter, r *http.Request) {
	var req AddDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "unable to parse body")
		return
	}

	rawTimestamp, err := req.timestamp()
	if err != nil {
		h.writeIngestError(w, err)
		return
	}

	number, isNumber, err := req.heartRateNumber()
	if err != nil {
		h.writeIngestError(w, err)
		return
	}

	var reading domain.Reading
	if isNumber {
		reading, err = h.service.IngestValue(r.Context(), rawTimestamp, number)
	} else {
		reading, err = h.service.Ingest(r.Context(), rawTimestamp, req.heartRateText())
	}
	if err != nil {
		h.writeIngestError(w, err)
		return
	}

	observability.RecordIngested(entrypointBody)
	writeJSON(w, http.StatusOK, toReadingResponse(reading))
}

func (h *Handler) addCurrent(w http.ResponseWriter, r *http.Request) {
	reading, err := h.service.IngestCurrent(r.Context(), mux.Vars(r)["heart_rate"])
	if err != nil {
		h.writeIngestError(w, err)
		return
	}

	observability.RecordIngested(entrypointPath)
	writeJSON(w, http.StatusOK, toReadingResponse(reading))
}

func (h *Handler) anomalies(w http.ResponseWriter, r *http.Request) {
	detector := h.service.Detector()
	series := h.service.Series(r.Context())
	band := detector.Thresholds()

	annotated := detector.Annotate(series)
	resp := AnomaliesResponse{
		Low:           band.Low,
		High:          band.High,
		AbnormalCount: detector.CountAbnormal(series),
		Readings:      make([]AnnotatedReadingView, 0, len(annotated)),
	}
	for _, point := range annotated {
		resp.Readings = append(resp.Readings, AnnotatedReadingView{
			Timestamp: formatTimestamp(point.Timestamp),
			HeartRate: point.HeartRate,
			Status:    string(point.Status),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) chart(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := chart.Render(&buf, h.service.Series(r.Context()), h.service.Detector(), chart.DefaultOptions()); err != nil {
		h.logger.Printf("chart render failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// writeIngestError maps validation failures to 400 and everything else,
// storage failures included, to 500.
func (h *Handler) writeIngestError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		observability.RecordValidationFailure(verr.Field)
		writeError(w, http.StatusBadRequest, verr.Error())
		return
	}
	h.logger.Printf("ingest failed: %v", err)
	if errors.Is(err, domain.ErrStorage) {
		writeError(w, http.StatusInternalServerError, "failed to store reading")
		return
	}
	writeError(w, http.StatusInternalServerError, "server error")
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func formatTimestamp(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339Nano)
}
