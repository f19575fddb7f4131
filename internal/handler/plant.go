package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/plantrent/plantrent/internal/handler/dto"
	"github.com/plantrent/plantrent/internal/model"
	"github.com/plantrent/plantrent/internal/service"
)

const (
	msgCatalog      = "Enjoy our wonderful selection"
	msgCatalogEmpty = "The catalog is empty"
	msgPlant        = "Enjoy this wonderful plant"
)

// PlantService is the catalog behaviour the handler needs.
type PlantService interface {
	ListPlants(ctx context.Context) ([]*model.Plant, error)
	GetPlant(ctx context.Context, id int64) (*model.Plant, error)
	CreatePlant(ctx context.Context, input service.PlantInput) (*model.Plant, error)
	UpdatePlant(ctx context.Context, id int64, input service.PlantInput) (*model.Plant, error)
	DeletePlant(ctx context.Context, id int64) error
}

// PlantHandler handles HTTP requests for the plant catalog.
type PlantHandler struct {
	svc    PlantService
	logger *slog.Logger
}

// NewPlantHandler creates a new PlantHandler.
func NewPlantHandler(svc PlantService, logger *slog.Logger) *PlantHandler {
	return &PlantHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET / and GET /plants.
func (h *PlantHandler) List(w http.ResponseWriter, r *http.Request) {
	plants, err := h.svc.ListPlants(r.Context())
	if err != nil {
		handleServiceError(h.logger, w, r, err)
		return
	}

	msg := msgCatalog
	if len(plants) == 0 {
		msg = msgCatalogEmpty
	}

	writeJSON(w, http.StatusOK, dto.PlantListResponse{
		Success: true,
		Plants:  dto.ToPlantShortList(plants),
		Message: msg,
	})
}

// Get handles GET /plants/{id}.
func (h *PlantHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound)
		return
	}

	plant, err := h.svc.GetPlant(r.Context(), id)
	if err != nil {
		handleServiceError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PlantDetailResponse{
		Success: true,
		Plants:  plant,
		Message: msgPlant,
	})
}

// Create handles POST /add.
func (h *PlantHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodePlant(w, r)
	if !ok {
		return
	}

	plant, err := h.svc.CreatePlant(r.Context(), input)
	if err != nil {
		handleServiceError(h.logger, w, r, err)
		return
	}

	h.logger.Info("plant_created",
		slog.Int64("plant_id", plant.ID),
		slog.String("name", plant.Name),
	)

	writeJSON(w, http.StatusOK, dto.PlantResponse{Success: true, Plant: plant})
}

// Update handles PATCH /plants/{id}.
func (h *PlantHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound)
		return
	}

	input, ok := h.decodePlant(w, r)
	if !ok {
		return
	}

	plant, err := h.svc.UpdatePlant(r.Context(), id, input)
	if err != nil {
		handleServiceError(h.logger, w, r, err)
		return
	}

	h.logger.Info("plant_updated", slog.Int64("plant_id", plant.ID))

	writeJSON(w, http.StatusOK, dto.PlantResponse{Success: true, Plant: plant})
}

// Delete handles DELETE /plants/{id}.
func (h *PlantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound)
		return
	}

	if err := h.svc.DeletePlant(r.Context(), id); err != nil {
		handleServiceError(h.logger, w, r, err)
		return
	}

	h.logger.Info("plant_deleted", slog.Int64("plant_id", id))

	writeJSON(w, http.StatusOK, dto.DeleteResponse{Success: true, ID: id})
}

// decodePlant reads a PlantRequest; undecodable bodies are unprocessable.
func (h *PlantHandler) decodePlant(w http.ResponseWriter, r *http.Request) (service.PlantInput, bool) {
	var req dto.PlantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge)
			return service.PlantInput{}, false
		}
		WriteError(w, http.StatusUnprocessableEntity)
		return service.PlantInput{}, false
	}

	return service.PlantInput{
		Name:        req.Name,
		Description: req.Description,
		Quantity:    req.Quantity,
		Price:       req.Price,
	}, true
}
