package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blociq/blociq-engine/pkg/models"
	"github.com/blociq/blociq-engine/pkg/services"
)

// BuildingResponse is the success body for building reads and writes.
type BuildingResponse struct {
	Success  bool             `json:"success"`
	Building *models.Building `json:"building"`
}

// BuildingListResponse for GET /api/buildings.
type BuildingListResponse struct {
	Buildings []*models.Building `json:"buildings"`
	Total     int                `json:"total"`
}

// BuildingHandler handles building HTTP requests.
type BuildingHandler struct {
	buildingService services.BuildingService
	agencyID        uuid.UUID
	logger          *zap.Logger
}

// NewBuildingHandler creates a new building handler.
func NewBuildingHandler(buildingService services.BuildingService, agencyID uuid.UUID, logger *zap.Logger) *BuildingHandler {
	return &BuildingHandler{
		buildingService: buildingService,
		agencyID:        agencyID,
		logger:          logger,
	}
}

// RegisterRoutes registers the building handler's routes on the given mux.
// PUT and PATCH share the same nil-means-unchanged update semantics.
func (h *BuildingHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/buildings", h.List)
	mux.HandleFunc("GET /api/buildings/{id}", h.Get)
	mux.HandleFunc("PUT /api/buildings/{id}", h.Update)
	mux.HandleFunc("PATCH /api/buildings/{id}", h.Update)
}

// List handles GET /api/buildings.
func (h *BuildingHandler) List(w http.ResponseWriter, r *http.Request) {
	buildings, err := h.buildingService.ListByAgency(r.Context(), h.agencyID)
	if err != nil {
		h.logger.Error("Failed to list buildings", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "failed to list buildings")
		return
	}

	response := BuildingListResponse{Buildings: buildings, Total: len(buildings)}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/buildings/{id}.
func (h *BuildingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	building, err := h.buildingService.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, id, err, "failed to get building")
		return
	}

	if err := WriteJSON(w, http.StatusOK, BuildingResponse{Success: true, Building: building}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT and PATCH /api/buildings/{id}. The updated row is
// echoed back in full, including is_hrb, so the UI can re-render
// without a second fetch.
func (h *BuildingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var update models.BuildingUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	building, err := h.buildingService.Update(r.Context(), id, &update)
	if err != nil {
		h.writeError(w, id, err, "failed to update building")
		return
	}

	if err := WriteJSON(w, http.StatusOK, BuildingResponse{Success: true, Building: building}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *BuildingHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "building id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *BuildingHandler) writeError(w http.ResponseWriter, id uuid.UUID, err error, message string) {
	status := StatusForError(err)
	h.logger.Error(message,
		zap.String("building_id", id.String()),
		zap.Int("status", status),
		zap.Error(err))
	if status == http.StatusNotFound {
		_ = ErrorResponse(w, status, "building not found")
		return
	}
	_ = ErrorResponse(w, status, message)
}
