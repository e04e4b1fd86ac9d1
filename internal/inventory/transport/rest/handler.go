// Package rest provides HTTP handlers for inventory operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	inventoryerrors "github.com/abgdnv/stockroom/internal/inventory/errors"
	"github.com/abgdnv/stockroom/internal/inventory/export"
	"github.com/abgdnv/stockroom/internal/inventory/service"
	"github.com/abgdnv/stockroom/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  service.InventoryService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the inventory API with the provided service.
func NewHandler(service service.InventoryService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// AdjustStockDto represents the request body for a stock adjustment.
type AdjustStockDto struct {
	Delta int `json:"delta" validate:"required"`
}

// WarningLevelDto represents the request body for threshold updates.
// A pointer keeps zero a valid level; negative levels are accepted.
type WarningLevelDto struct {
	WarningLevel *int `json:"warning_level" validate:"required"`
}

// RegisterRoutes registers the HTTP routes for the inventory service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/inventory", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Get("/alerts", h.FindLowStock)
		r.Get("/stats", h.Stats)
		r.Get("/report/daily", h.DailyReport)
		r.Get("/export", h.Export)

		r.Route("/warning/global", func(r chi.Router) {
			r.Get("/", h.GlobalWarningLevel)
			r.Put("/", h.SetGlobalWarningLevel)
		})

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Post("/stock", h.AdjustStock)
			r.Get("/warning", h.WarningLevel)
			r.Put("/warning", h.SetWarningLevel)
		})
	})

	// Internal contract used by the catalog service's sync calls.
	r.Route("/internal/inventory", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Delete("/{id}", h.Delete)
	})

	r.Get("/healthz", h.HealthCheck)
}

// FindAll retrieves enriched records matching the optional filters.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	minStock, ok := web.ParseOptionalInt(r, w, mLogger, "min_stock")
	if !ok {
		return
	}
	maxStock, ok := web.ParseOptionalInt(r, w, mLogger, "max_stock")
	if !ok {
		return
	}
	filter := service.Filter{
		Name:     r.URL.Query().Get("name"),
		Category: r.URL.Query().Get("category"),
		MinStock: minStock,
		MaxStock: maxStock,
	}

	list, err := h.service.FindAll(r.Context(), filter)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving inventory list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch inventory records")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved inventory list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// FindLowStock retrieves all records at or below their warning level.
func (h *Handler) FindLowStock(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	list, err := h.service.FindLowStock(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving low stock alerts", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch low stock alerts")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// FindByID retrieves the enriched record for one product.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, inventoryerrors.ErrRecordNotFound) {
			mLogger.WarnContext(r.Context(), "Inventory record not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Inventory record for product %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving inventory record", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve inventory record for product %s", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// AdjustStock applies a delta to the record's stock level.
func (h *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	var adjustDto AdjustStockDto
	if err := json.NewDecoder(r.Body).Decode(&adjustDto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateDto(w, r, mLogger, &adjustDto) {
		return
	}

	updated, err := h.service.AdjustStock(r.Context(), id, adjustDto.Delta)
	if err != nil {
		switch {
		case errors.Is(err, inventoryerrors.ErrRecordNotFound):
			mLogger.WarnContext(r.Context(), "Inventory record not found for stock adjustment", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Inventory record for product %s not found", id))
		case errors.Is(err, inventoryerrors.ErrInsufficientStock):
			mLogger.WarnContext(r.Context(), "Insufficient stock for adjustment", "ID", id, "delta", adjustDto.Delta)
			web.RespondError(w, mLogger, http.StatusBadRequest, fmt.Sprintf("Insufficient stock for product %s", id))
		default:
			mLogger.ErrorContext(r.Context(), "Error adjusting stock", "ID", id, "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to adjust stock for product %s", id))
		}
		return
	}
	mLogger.InfoContext(r.Context(), "Stock adjusted successfully", "ID", id, "NewStock", updated.CurrentStock)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// WarningLevel returns the threshold for one record.
func (h *Handler) WarningLevel(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	level, err := h.service.WarningLevel(r.Context(), id)
	if err != nil {
		if errors.Is(err, inventoryerrors.ErrRecordNotFound) {
			mLogger.WarnContext(r.Context(), "Inventory record not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Inventory record for product %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving warning level", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve warning level for product %s", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, map[string]int{"warning_level": level})
}

// SetWarningLevel overwrites the threshold for one record.
func (h *Handler) SetWarningLevel(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	var levelDto WarningLevelDto
	if err := json.NewDecoder(r.Body).Decode(&levelDto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateDto(w, r, mLogger, &levelDto) {
		return
	}

	if err := h.service.SetWarningLevel(r.Context(), id, *levelDto.WarningLevel); err != nil {
		if errors.Is(err, inventoryerrors.ErrRecordNotFound) {
			mLogger.WarnContext(r.Context(), "Inventory record not found for warning update", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Inventory record for product %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error setting warning level", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to set warning level for product %s", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Warning level updated", "ID", id, "WarningLevel", *levelDto.WarningLevel)
	web.RespondJSON(w, mLogger, http.StatusOK, map[string]int{"warning_level": *levelDto.WarningLevel})
}

// GlobalWarningLevel returns the default threshold for new records.
func (h *Handler) GlobalWarningLevel(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	level, err := h.service.GlobalWarningLevel(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving global warning level", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to retrieve global warning level")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, map[string]int{"warning_level": level})
}

// SetGlobalWarningLevel sets the default threshold and overwrites every
// existing record's threshold.
func (h *Handler) SetGlobalWarningLevel(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var levelDto WarningLevelDto
	if err := json.NewDecoder(r.Body).Decode(&levelDto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateDto(w, r, mLogger, &levelDto) {
		return
	}

	if err := h.service.SetGlobalWarningLevel(r.Context(), *levelDto.WarningLevel); err != nil {
		mLogger.ErrorContext(r.Context(), "Error setting global warning level", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to set global warning level")
		return
	}
	mLogger.InfoContext(r.Context(), "Global warning level updated", "WarningLevel", *levelDto.WarningLevel)
	web.RespondJSON(w, mLogger, http.StatusOK, map[string]int{"warning_level": *levelDto.WarningLevel})
}

// Stats returns the aggregate counters over all records.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error computing inventory stats", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to compute inventory stats")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, stats)
}

// DailyReport returns the daily report.
func (h *Handler) DailyReport(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	report, err := h.service.DailyReport(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error generating daily report", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to generate daily report")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, report)
}

// Export streams all enriched records as CSV.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	list, err := h.service.FindAll(r.Context(), service.Filter{})
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error exporting inventory", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to export inventory")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="inventory.csv"`)
	if err := export.WriteCSV(w, list); err != nil {
		mLogger.ErrorContext(r.Context(), "Error writing CSV export", "error", err)
	}
}

// Create handles the internal record creation call from the catalog service.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var createDto service.RecordCreateDto
	if err := json.NewDecoder(r.Body).Decode(&createDto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateDto(w, r, mLogger, &createDto) {
		return
	}

	created, err := h.service.Create(r.Context(), createDto)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error creating inventory record", "ID", createDto.ID, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create inventory record")
		return
	}
	mLogger.InfoContext(r.Context(), "Inventory record created", "ID", created.ProductID, "Location", created.Location)
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

// Delete handles the internal record deletion call from the catalog service.
// Deleting an absent record succeeds: the operation is idempotent.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		mLogger.ErrorContext(r.Context(), "Error deleting inventory record", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to delete inventory record for product %s", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Inventory record deleted", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// validateDto validates a request DTO and responds with field errors on failure.
func (h *Handler) validateDto(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, dto any) bool {
	if err := h.validate.Struct(dto); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return false
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
