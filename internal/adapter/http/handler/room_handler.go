package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gohotel/internal/adapter/http/dto"
	"github.com/iho/gohotel/internal/domain"
)

// RoomService defines the behavior needed by RoomHandler.
type RoomService interface {
	ListRoomTypes() []domain.RoomTypeInfo
	GetRoomType(name string) (domain.RoomTypeInfo, error)
}

// RoomHandler serves the room catalog.
type RoomHandler struct {
	roomUC RoomService
}

// NewRoomHandler creates a new RoomHandler.
func NewRoomHandler(roomUC RoomService) *RoomHandler {
	return &RoomHandler{roomUC: roomUC}
}

// ListTypes lists room types with their nightly price and equipment.
func (h *RoomHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	types := h.roomUC.ListRoomTypes()
	resp := make([]dto.RoomTypeResponse, len(types))
	for i, info := range types {
		resp[i] = dto.RoomTypeFromDomain(info)
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetType returns one room type.
func (h *RoomHandler) GetType(w http.ResponseWriter, r *http.Request) {
	info, err := h.roomUC.GetRoomType(chi.URLParam(r, "type"))
	if err != nil {
		writeError(w, http.StatusNotFound, "room type not found", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RoomTypeFromDomain(info))
}
