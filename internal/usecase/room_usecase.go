package usecase

import "github.com/iho/gohotel/internal/domain"

// RoomUseCase exposes the room catalog.
type RoomUseCase struct{}

// NewRoomUseCase creates a new RoomUseCase.
func NewRoomUseCase() *RoomUseCase {
	return &RoomUseCase{}
}

// ListRoomTypes returns every room type with its price and equipment.
func (uc *RoomUseCase) ListRoomTypes() []domain.RoomTypeInfo {
	return domain.RoomTypes()
}

// GetRoomType looks up a room type by name.
func (uc *RoomUseCase) GetRoomType(name string) (domain.RoomTypeInfo, error) {
	roomType, err := domain.ParseRoomType(name)
	if err != nil {
		return domain.RoomTypeInfo{}, err
	}
	return roomType.Info()
}
