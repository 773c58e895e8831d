package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/trackarr/internal/models"
)

// ItemsHandler handles tracked-item collection requests (/api/items)
type ItemsHandler struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewItemsHandler creates a new items handler
func NewItemsHandler(db *models.Database, logger *logrus.Logger) *ItemsHandler {
	return &ItemsHandler{
		db:     db,
		logger: logger,
	}
}

// validRating checks the [0,10] range and half-point granularity enforced at
// the API boundary (the stats core does not validate ratings)
func validRating(r float64) bool {
	if r < 0 || r > 10 {
		return false
	}
	scaled := r * 2
	return scaled == math.Trunc(scaled)
}

type createItemRequest struct {
	ExternalID     int64      `json:"external_id"`
	MediaType      string     `json:"media_type"`
	Title          string     `json:"title"`
	PosterPath     string     `json:"poster_path"`
	Status         string     `json:"status"`
	Rating         *float64   `json:"rating"`
	WatchedAt      *time.Time `json:"watched_at"`
	StartedAt      *time.Time `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at"`
	Genres         []string   `json:"genres"`
	EstimatedHours *float64   `json:"estimated_hours"`
	RuntimeMinutes *int       `json:"runtime_minutes"`
	SeasonsAtAdd   *int       `json:"seasons_at_add"`
}

// ServeHTTP dispatches collection-level item requests
func (h *ItemsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	case http.MethodDelete:
		h.clear(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ItemsHandler) list(w http.ResponseWriter, r *http.Request) {
	var items []*models.TrackedItem
	var err error

	if mediaType := r.URL.Query().Get("media_type"); mediaType != "" {
		if !models.MediaType(mediaType).Valid() {
			http.Error(w, "Unknown media type", http.StatusBadRequest)
			return
		}
		items, err = h.db.GetItemsByMediaType(models.MediaType(mediaType))
	} else {
		items, err = h.db.GetAllItems()
	}

	if err != nil {
		h.logger.WithError(err).Error("Failed to get items")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

func (h *ItemsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	mediaType := models.MediaType(req.MediaType)
	if !mediaType.Valid() {
		http.Error(w, "Unknown media type", http.StatusBadRequest)
		return
	}
	if req.ExternalID <= 0 {
		http.Error(w, "external_id is required", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	status := models.StatusPlanned
	if req.Status != "" {
		status = models.Status(req.Status)
		if !status.ValidFor(mediaType) {
			http.Error(w, "Invalid status for media type", http.StatusBadRequest)
			return
		}
	}

	if req.Rating != nil && !validRating(*req.Rating) {
		http.Error(w, "Rating must be between 0 and 10 in 0.5 steps", http.StatusBadRequest)
		return
	}
	if req.StartedAt != nil && req.FinishedAt != nil && req.FinishedAt.Before(*req.StartedAt) {
		http.Error(w, "finished_at cannot be before started_at", http.StatusBadRequest)
		return
	}

	item := &models.TrackedItem{
		ExternalID:     req.ExternalID,
		MediaType:      mediaType,
		Title:          req.Title,
		PosterPath:     req.PosterPath,
		Status:         status,
		Rating:         req.Rating,
		WatchedAt:      req.WatchedAt,
		StartedAt:      req.StartedAt,
		FinishedAt:     req.FinishedAt,
		Genres:         req.Genres,
		EstimatedHours: req.EstimatedHours,
		RuntimeMinutes: req.RuntimeMinutes,
		SeasonsAtAdd:   req.SeasonsAtAdd,
	}

	if err := h.db.CreateItem(item); err != nil {
		if errors.Is(err, models.ErrDuplicateItem) {
			http.Error(w, "Item already tracked", http.StatusConflict)
			return
		}
		h.logger.WithError(err).Error("Failed to create item")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"item_id": item.ID,
		"title":   item.Title,
		"type":    item.MediaType,
	}).Info("Item added to library")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

func (h *ItemsHandler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.db.DeleteAllItems(); err != nil {
		h.logger.WithError(err).Error("Failed to clear items")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.Warn("Library cleared")
	w.WriteHeader(http.StatusNoContent)
}

// ItemHandler handles single-item requests (/api/items/{id})
type ItemHandler struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewItemHandler creates a new single-item handler
func NewItemHandler(db *models.Database, logger *logrus.Logger) *ItemHandler {
	return &ItemHandler{
		db:     db,
		logger: logger,
	}
}

type updateItemRequest struct {
	Status         *string    `json:"status"`
	Rating         *float64   `json:"rating"`
	WatchedAt      *time.Time `json:"watched_at"`
	StartedAt      *time.Time `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at"`
	Genres         []string   `json:"genres"`
	EstimatedHours *float64   `json:"estimated_hours"`
}

// ServeHTTP dispatches single-item requests
func (h *ItemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/items/")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPatch:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ItemHandler) get(w http.ResponseWriter, r *http.Request, id uint64) {
	item, err := h.db.GetItemByID(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, "Item not found", http.StatusNotFound)
			return
		}
		h.logger.WithError(err).Error("Failed to get item")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

func (h *ItemHandler) update(w http.ResponseWriter, r *http.Request, id uint64) {
	item, err := h.db.GetItemByID(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, "Item not found", http.StatusNotFound)
			return
		}
		h.logger.WithError(err).Error("Failed to get item")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	if req.Status != nil {
		status := models.Status(*req.Status)
		if !status.ValidFor(item.MediaType) {
			http.Error(w, "Invalid status for media type", http.StatusBadRequest)
			return
		}
		item.Status = status
	}
	if req.Rating != nil {
		if !validRating(*req.Rating) {
			http.Error(w, "Rating must be between 0 and 10 in 0.5 steps", http.StatusBadRequest)
			return
		}
		item.Rating = req.Rating
	}
	if req.WatchedAt != nil {
		item.WatchedAt = req.WatchedAt
	}
	if req.StartedAt != nil {
		item.StartedAt = req.StartedAt
	}
	if req.FinishedAt != nil {
		item.FinishedAt = req.FinishedAt
	}
	if item.StartedAt != nil && item.FinishedAt != nil && item.FinishedAt.Before(*item.StartedAt) {
		http.Error(w, "finished_at cannot be before started_at", http.StatusBadRequest)
		return
	}
	if req.Genres != nil {
		item.Genres = req.Genres
	}
	if req.EstimatedHours != nil {
		item.EstimatedHours = req.EstimatedHours
	}

	if err := h.db.UpdateItem(item); err != nil {
		h.logger.WithError(err).Error("Failed to update item")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

func (h *ItemHandler) delete(w http.ResponseWriter, r *http.Request, id uint64) {
	if err := h.db.DeleteItem(id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, "Item not found", http.StatusNotFound)
			return
		}
		h.logger.WithError(err).Error("Failed to delete item")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.WithField("item_id", id).Info("Item removed from library")
	w.WriteHeader(http.StatusNoContent)
}
