package apihttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"call-data-gen/internal/cdr"
	"call-data-gen/internal/generator"
	"call-data-gen/internal/kpi"
	"call-data-gen/internal/observability/metrics"
	"call-data-gen/internal/pipeline"
	"call-data-gen/internal/validate"
)

const maxRequestBody = 1 << 20

// Handler exposes the generation endpoints.
type Handler struct {
	service *generator.Service
	logger  *zap.Logger
}

// NewHandler constructs the API handler.
func NewHandler(service *generator.Service, logger *zap.Logger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("apihttp: nil service")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}, nil
}

// Register mounts the API routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/generateKpiData", h.handleGenerateKPI)
	mux.HandleFunc("/api/v1/generateCdrData", h.handleGenerateCDR)
	mux.HandleFunc("/", h.handleNotFound)
}

type successAck struct {
	Status string         `json:"status"`
	Data   successPayload `json:"data"`
}

type successPayload struct {
	Message string                `json:"message"`
	Outcome pipeline.BatchOutcome `json:"outcome"`
}

func (h *Handler) handleGenerateKPI(w http.ResponseWriter, r *http.Request) {
	if !h.requirePost(w, r) {
		return
	}
	started := time.Now()

	var assets []kpi.AssetDescriptor
	if err := decodeBody(r, &assets); err != nil {
		metrics.ObserveGenerate(string(pipeline.KindKPI), metrics.ResultError, time.Since(started))
		WriteError(w, h.logger, http.StatusBadRequest, "request body must be a JSON array of asset descriptors")
		return
	}

	outcome, err := h.service.GenerateKPIs(r.Context(), assets)
	if err != nil {
		h.writeGenerateError(w, string(pipeline.KindKPI), started, err)
		return
	}

	metrics.ObserveGenerate(string(pipeline.KindKPI), metrics.ResultSuccess, time.Since(started))
	writeJSON(w, http.StatusOK, successAck{
		Status: "success",
		Data: successPayload{
			Message: "KPI data submitted to the ingestion pipeline",
			Outcome: outcome,
		},
	})
}

func (h *Handler) handleGenerateCDR(w http.ResponseWriter, r *http.Request) {
	if !h.requirePost(w, r) {
		return
	}
	started := time.Now()

	var topology cdr.TopologyDescriptor
	if err := decodeBody(r, &topology); err != nil {
		metrics.ObserveGenerate(string(pipeline.KindSBCCdr), metrics.ResultError, time.Since(started))
		WriteError(w, h.logger, http.StatusBadRequest, "request body must be a JSON topology descriptor")
		return
	}

	outcome, err := h.service.GenerateCDRs(r.Context(), topology)
	if err != nil {
		h.writeGenerateError(w, string(pipeline.KindSBCCdr), started, err)
		return
	}

	metrics.ObserveGenerate(string(pipeline.KindSBCCdr), metrics.ResultSuccess, time.Since(started))
	writeJSON(w, http.StatusOK, successAck{
		Status: "success",
		Data: successPayload{
			Message: "CDR data submitted to the ingestion pipeline",
			Outcome: outcome,
		},
	})
}

func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, h.logger, http.StatusNotFound,
		fmt.Sprintf("Can't find %s on this server", r.URL.Path))
}

func (h *Handler) requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodPost {
		return true
	}
	w.Header().Set("Allow", http.MethodPost)
	WriteError(w, h.logger, http.StatusMethodNotAllowed,
		fmt.Sprintf("%s is not allowed on %s", r.Method, r.URL.Path))
	return false
}

func (h *Handler) writeGenerateError(w http.ResponseWriter, kind string, started time.Time, err error) {
	metrics.ObserveGenerate(kind, metrics.ResultError, time.Since(started))

	var verr *validate.Error
	if errors.As(err, &verr) {
		WriteError(w, h.logger, http.StatusBadRequest, verr.Error())
		return
	}
	h.logger.Error("generation failed", zap.String("kind", kind), zap.Error(err))
	WriteError(w, h.logger, http.StatusInternalServerError, "data generation failed")
}

func decodeBody(r *http.Request, target any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	return decoder.Decode(target)
}
