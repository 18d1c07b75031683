// Package server exposes the loan calculator over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/loan-calculator/internal/calculator"
	"github.com/iwvelando/loan-calculator/pkg/amortization"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/output"
	"github.com/iwvelando/loan-calculator/pkg/report"
	"github.com/iwvelando/loan-calculator/pkg/validation"
	"go.uber.org/zap"
)

// Reasons reported alongside a 422 response.
const (
	reasonInvalidParameters = "invalid_parameters"
	reasonNonFinitePayment  = "non_finite_payment"
)

type handler struct {
	logger        *zap.Logger
	service       *calculator.Service
	maxBodySize   int64
	maxTermMonths int
	currency      string
	version       string
}

// Options configures NewHandler.
type Options struct {
	MaxBodySize   int64
	MaxTermMonths int
	Currency      string
	Version       string
}

// NewHandler constructs the HTTP handler that serves the calculation API.
func NewHandler(logger *zap.Logger, service *calculator.Service, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if service == nil {
		service = calculator.NewService(logger, nil, 0)
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = constants.DefaultMaxBodySizeBytes
	}
	if opts.MaxTermMonths <= 0 {
		opts.MaxTermMonths = constants.DefaultMaxTermMonths
	}
	if opts.Currency == "" {
		opts.Currency = constants.DefaultCurrency
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		service:       service,
		maxBodySize:   opts.MaxBodySize,
		maxTermMonths: opts.MaxTermMonths,
		currency:      opts.Currency,
		version:       trimmedVersion,
	}

	mux := http.NewServeMux()

	// Calculation endpoint returning the schedule and derived views
	mux.HandleFunc("/api/calculate", h.handleCalculate)

	// Schedule download
	mux.HandleFunc("/api/export", h.handleExport)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type calculateResponse struct {
	Parameters amortization.Parameters `json:"parameters"`
	Result     amortization.Result     `json:"result"`
	Summary    report.Summary          `json:"summary"`
	Formatted  report.FormattedSummary `json:"formatted"`
	Breakdown  []report.Slice          `json:"breakdown"`
	Trend      []report.TrendPoint     `json:"trend"`
	Warnings   []string                `json:"warnings,omitempty"`
	Duration   string                  `json:"duration"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	const op = "server.handleCalculate"
	start := time.Now()

	params, ok := h.decodeParameters(w, r, op)
	if !ok {
		return
	}

	result, ok := h.calculate(w, r, params, op)
	if !ok {
		return
	}

	summary := report.NewSummary(result)
	elapsed := time.Since(start)
	response := calculateResponse{
		Parameters: params,
		Result:     result,
		Summary:    summary,
		Formatted:  summary.Format(h.currency),
		Breakdown:  report.Breakdown(params, result),
		Trend:      report.Trend(result),
		Warnings:   validation.ParameterWarnings(params),
		Duration:   elapsed.String(),
	}

	h.logger.Info("loan computed",
		zap.String("op", op),
		zap.Int("months", len(result.Schedule)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	const op = "server.handleExport"

	exportFormat := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if exportFormat == "" {
		exportFormat = constants.OutputFormatCSV
	}
	if exportFormat != constants.OutputFormatCSV && exportFormat != constants.OutputFormatYAML {
		h.respondError(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("unsupported export format %q", exportFormat),
		}, op)
		return
	}

	params, ok := h.decodeParameters(w, r, op)
	if !ok {
		return
	}

	result, ok := h.calculate(w, r, params, op)
	if !ok {
		return
	}

	var buf bytes.Buffer
	var contentType string
	var err error
	switch exportFormat {
	case constants.OutputFormatYAML:
		contentType = "application/yaml"
		err = output.YAML(&buf, params, result)
	default:
		contentType = "text/csv; charset=utf-8"
		err = output.CSV(&buf, result)
	}
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, errorResponse{
			Error: fmt.Sprintf("failed to export schedule: %v", err),
		}, op)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "amortization-schedule."+exportFormat))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write export", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) decodeParameters(w http.ResponseWriter, r *http.Request, op string) (amortization.Parameters, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var params amortization.Parameters
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&params); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge, errorResponse{
				Error: fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize),
			}, op)
			return params, false
		}
		h.respondError(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("failed to decode parameters: %v", err),
		}, op)
		return params, false
	}

	if params.TermMonths > h.maxTermMonths {
		h.respondError(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("term of %d months exceeds limit of %d", params.TermMonths, h.maxTermMonths),
		}, op)
		return params, false
	}
	return params, true
}

func (h *handler) calculate(w http.ResponseWriter, r *http.Request, params amortization.Parameters, op string) (amortization.Result, bool) {
	result, err := h.service.Calculate(r.Context(), params)
	if err == nil {
		return result, true
	}

	if errors.Is(err, amortization.ErrInvalidParameters) {
		reason := reasonInvalidParameters
		if errors.Is(err, amortization.ErrNonFinitePayment) {
			reason = reasonNonFinitePayment
		}
		h.respondError(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Reason: reason}, op)
		return result, false
	}

	h.respondError(w, http.StatusInternalServerError, errorResponse{
		Error: fmt.Sprintf("failed to compute loan: %v", err),
	}, op)
	return result, false
}

func (h *handler) respondError(w http.ResponseWriter, status int, payload errorResponse, op string) {
	h.logger.Error("calculation request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", payload.Error),
	)

	h.writeJSON(w, status, payload)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
