// Package valuation exposes the pipeline over HTTP: a WACC-only
// endpoint and the full DCF run.
package valuation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dcf_suite/pkg/core/capital"
	"dcf_suite/pkg/core/pipeline"
	"dcf_suite/pkg/core/report"
	"dcf_suite/pkg/models"
)

var runner *pipeline.Runner

// InitHandler wires the shared pipeline runner into the handlers.
func InitHandler(r *pipeline.Runner) {
	runner = r
}

type ValuationRequest struct {
	Ticker string `json:"ticker"`
}

type WACCResponse struct {
	Ticker string                    `json:"ticker"`
	Beta   capital.MarketModelResult `json:"beta"`
	WACC   capital.WACCEstimate      `json:"wacc"`
}

type DCFResponse struct {
	Summary  json.RawMessage `json:"summary"`
	Markdown string          `json:"markdown"`
	HTML     string          `json:"html"`
}

func applyCORS(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

func decodeTicker(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req ValuationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		http.Error(w, "ticker is required", http.StatusBadRequest)
		return "", false
	}
	return ticker, true
}

// statusFor maps the error taxonomy onto HTTP statuses: bad input is a
// 400, missing data a 404, upstream failures a 502, everything else 500.
func statusFor(err error) int {
	var (
		verr *models.InputValidationError
		ierr *models.InsufficientDataError
		derr *models.DomainError
		nerr *models.NotFoundError
		xerr *models.ExternalDataError
	)
	switch {
	case errors.As(err, &verr), errors.As(err, &ierr), errors.As(err, &derr):
		return http.StatusBadRequest
	case errors.As(err, &nerr):
		return http.StatusNotFound
	case errors.As(err, &xerr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HandleWACC serves POST /api/valuation/wacc.
func HandleWACC(w http.ResponseWriter, r *http.Request) {
	if applyCORS(w, r) {
		return
	}
	ticker, ok := decodeTicker(w, r)
	if !ok {
		return
	}
	fmt.Printf("[API] WACC request: %s\n", ticker)

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	wacc, model, err := runner.CostOfCapital(ctx, ticker)
	if err != nil {
		fmt.Printf("[API] WACC failed for %s: %v\n", ticker, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(WACCResponse{Ticker: ticker, Beta: model, WACC: wacc})
}

// HandleDCF serves POST /api/valuation/dcf with the full pipeline run.
func HandleDCF(w http.ResponseWriter, r *http.Request) {
	if applyCORS(w, r) {
		return
	}
	ticker, ok := decodeTicker(w, r)
	if !ok {
		return
	}
	fmt.Printf("[API] DCF request: %s\n", ticker)

	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()

	summary, err := runner.Run(ctx, ticker)
	if err != nil {
		fmt.Printf("[API] DCF failed for %s: %v\n", ticker, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	markdown := report.BuildMarkdown(summary)
	html, err := report.RenderHTML(markdown)
	if err != nil {
		fmt.Printf("[WARNING] report rendering failed for %s: %v\n", ticker, err)
	}
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DCFResponse{
		Summary:  summaryJSON,
		Markdown: markdown,
		HTML:     html,
	})
}
