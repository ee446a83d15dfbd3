package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"JerseyFM/core/pipeline"
	"JerseyFM/logger"
	"JerseyFM/model"

	"github.com/gorilla/mux"
)

const (
	statusSuccess = "success"
	statusError   = "error"
	statusInvalid = "invalid"

	maxRequestBody = 1 << 20
	recordTimeout  = 5 * time.Second
)

// Minter runs one mint request through the pipeline.
type Minter interface {
	Execute(ctx context.Context, req *model.MintRequest, observe pipeline.Observer) (*pipeline.Result, error)
}

// MintHandler serves the mint API.
type MintHandler struct {
	minter   Minter
	receipts *ReceiptBook
	metrics  *Metrics
}

// NewMintHandler 创建铸造处理器
// receipts and metrics may be nil.
func NewMintHandler(minter Minter, receipts *ReceiptBook, metrics *Metrics) *MintHandler {
	return &MintHandler{minter: minter, receipts: receipts, metrics: metrics}
}

type mintResponse struct {
	Status       string `json:"status"`
	AssetID      string `json:"assetId"`
	Signature    string `json:"signature"`
	ExplorerLink string `json:"explorerLink"`
}

type failureResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("failed to write response", logger.ErrorField(err))
	}
}

// postOnly answers every verb but POST with 405.
func postOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeJSON(w, http.StatusMethodNotAllowed, errorBody("Method not allowed"))
			return
		}
		next(w, r)
	}
}

// run executes req and takes care of metrics and receipts around it.
func (h *MintHandler) run(ctx context.Context, req *model.MintRequest, observe pipeline.Observer) (*pipeline.Result, error) {
	done := h.metrics.begin()
	res, err := h.minter.Execute(ctx, req, observe)
	switch {
	case err == nil:
		done(statusSuccess, res)
	case isValidation(err):
		done(statusInvalid, res)
		return res, err
	default:
		done(statusError, res)
		return res, err
	}

	logger.Info("mint completed",
		logger.String("requestId", RequestIDFromContext(ctx)),
		logger.String("subject", SubjectFromContext(ctx)),
		logger.String("assetId", res.Outcome.AssetID))

	if h.receipts != nil && res.Payload != nil && res.Assets != nil {
		receipt := model.NewMintReceipt(RequestIDFromContext(ctx), req, res.Payload, res.Assets, res.Outcome)
		receipt.MintedBy = SubjectFromContext(ctx)
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
		defer cancel()
		h.receipts.Record(rctx, receipt)
	}
	return res, nil
}

func isValidation(err error) bool {
	var verr *pipeline.ValidationError
	return errors.As(err, &verr)
}

// Mint handles POST /api/mint.
func (h *MintHandler) Mint(w http.ResponseWriter, r *http.Request) {
	var req model.MintRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&req); err != nil {
		logger.Warn("undecodable mint request",
			logger.String("requestId", RequestIDFromContext(r.Context())),
			logger.ErrorField(err))
		writeJSON(w, http.StatusBadRequest, errorBody(pipeline.ErrMissingFields.Error()))
		return
	}

	res, err := h.run(r.Context(), &req, nil)
	if err != nil {
		if isValidation(err) {
			writeJSON(w, http.StatusBadRequest, errorBody(pipeline.ErrMissingFields.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, failureResponse{Status: statusError, Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, mintResponse{
		Status:       statusSuccess,
		AssetID:      res.Outcome.AssetID,
		Signature:    res.Outcome.Signature,
		ExplorerLink: res.Outcome.ExplorerLink,
	})
}

// GetReceipt handles GET /api/mints/{assetId}.
func (h *MintHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	assetID := mux.Vars(r)["assetId"]
	receipt, err := h.receipts.Get(r.Context(), assetID)
	if err != nil {
		logger.Error("failed to load receipt", logger.String("assetId", assetID), logger.ErrorField(err))
		writeJSON(w, http.StatusInternalServerError, errorBody("Failed to load receipt"))
		return
	}
	if receipt == nil {
		writeJSON(w, http.StatusNotFound, errorBody("Receipt not found"))
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// ListReceipts handles GET /api/mints?owner=<address>&limit=<n>.
func (h *MintHandler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	owner := strings.TrimSpace(r.URL.Query().Get("owner"))
	if owner == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("owner is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	receipts, err := h.receipts.ListByOwner(r.Context(), owner, limit)
	if err != nil {
		if errors.Is(err, ErrNoLedger) {
			writeJSON(w, http.StatusServiceUnavailable, errorBody("Receipt ledger not configured"))
			return
		}
		logger.Error("failed to list receipts", logger.String("owner", owner), logger.ErrorField(err))
		writeJSON(w, http.StatusInternalServerError, errorBody("Failed to list receipts"))
		return
	}
	if receipts == nil {
		receipts = []*model.MintReceipt{}
	}
	writeJSON(w, http.StatusOK, receipts)
}
