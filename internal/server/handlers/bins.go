package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/valtools/valtools/internal/server/storage"
	"github.com/valtools/valtools/pkg/api"
)

// BinStorage определяет интерфейс хранилища bin-ов
type BinStorage interface {
	CreateBin(ctx context.Context) (string, error)
	GetBin(ctx context.Context, id string) (string, error)
	ReplaceBin(ctx context.Context, id, payload string) error
}

// BinsHandler обслуживает протокол bin-хранилища, который ожидает клиент
type BinsHandler struct {
	logger  *slog.Logger
	storage BinStorage
}

// NewBinsHandler создает handler bin-ов
func NewBinsHandler(logger *slog.Logger, storage BinStorage) *BinsHandler {
	return &BinsHandler{
		logger:  logger,
		storage: storage,
	}
}

// GetLatest обрабатывает GET /v3/b/{id}/latest
func (h *BinsHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	payload, err := h.storage.GetBin(r.Context(), id)
	if errors.Is(err, storage.ErrBinNotFound) {
		writeError(w, h.logger, http.StatusNotFound, "bin not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to read bin", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, api.BinResponse{
		Record: api.BinRecord{Payload: payload},
	})
}

// Replace обрабатывает PUT /v3/b/{id}.
// Полная перезапись документа, последняя запись побеждает.
func (h *BinsHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req api.BinUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Payload == "" {
		writeError(w, h.logger, http.StatusBadRequest, "payload is required")
		return
	}

	err := h.storage.ReplaceBin(r.Context(), id, req.Payload)
	if errors.Is(err, storage.ErrBinNotFound) {
		writeError(w, h.logger, http.StatusNotFound, "bin not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to replace bin", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("bin replaced", "size", len(req.Payload))
	writeJSON(w, h.logger, http.StatusOK, api.BinResponse{
		Record: api.BinRecord{Payload: req.Payload},
	})
}

// Create обрабатывает POST /v3/b
func (h *BinsHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := h.storage.CreateBin(r.Context())
	if err != nil {
		h.logger.Error("failed to create bin", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("bin created")
	writeJSON(w, h.logger, http.StatusCreated, api.BinCreateResponse{ID: id})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	writeJSON(w, logger, status, api.ErrorResponse{Error: message})
}
