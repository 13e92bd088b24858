package domain

import (
	"fmt"
	"strings"
)

// RoomType is a bookable category of room.
type RoomType string

const (
	RoomTypeStandard RoomType = "STANDARD"
	RoomTypeSuperior RoomType = "SUPERIOR"
	RoomTypeSuite    RoomType = "SUITE"
)

// Equipment is a feature of a room type.
type Equipment struct {
	Name        string
	Description string
}

// RoomTypeInfo describes a room type's nightly price and equipment.
type RoomTypeInfo struct {
	Type          RoomType
	PricePerNight Money
	Equipment     []Equipment
}

var roomCatalog = []RoomTypeInfo{
	{
		Type:          RoomTypeStandard,
		PricePerNight: Euros(50),
		Equipment: []Equipment{
			{Name: "Single bed"},
			{Name: "Wifi"},
			{Name: "TV"},
		},
	},
	{
		Type:          RoomTypeSuperior,
		PricePerNight: Euros(100),
		Equipment: []Equipment{
			{Name: "Double bed"},
			{Name: "Wifi"},
			{Name: "Flat-screen TV"},
			{Name: "Minibar"},
			{Name: "Air conditioning"},
		},
	},
	{
		Type:          RoomTypeSuite,
		PricePerNight: Euros(200),
		Equipment: []Equipment{
			{Name: "Double bed"},
			{Name: "Wifi"},
			{Name: "Flat-screen TV"},
			{Name: "Minibar"},
			{Name: "Air conditioning"},
			{Name: "Bathtub"},
			{Name: "Terrace"},
		},
	},
}

// ParseRoomType accepts a room type name in any case.
func ParseRoomType(s string) (RoomType, error) {
	rt := RoomType(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := lookupRoomType(rt); !ok {
		return "", fmt.Errorf("%w: unknown room type %q", ErrValidation, s)
	}
	return rt, nil
}

// RoomTypes returns the catalog in price order.
func RoomTypes() []RoomTypeInfo {
	out := make([]RoomTypeInfo, len(roomCatalog))
	for i, info := range roomCatalog {
		out[i] = info
		out[i].Equipment = append([]Equipment(nil), info.Equipment...)
	}
	return out
}

// Info returns the catalog entry of the room type.
func (rt RoomType) Info() (RoomTypeInfo, error) {
	info, ok := lookupRoomType(rt)
	if !ok {
		return RoomTypeInfo{}, fmt.Errorf("%w: unknown room type %q", ErrValidation, rt)
	}
	info.Equipment = append([]Equipment(nil), info.Equipment...)
	return info, nil
}

// PricePerNight returns the nightly price of one room.
func (rt RoomType) PricePerNight() (Money, error) {
	info, ok := lookupRoomType(rt)
	if !ok {
		return Money{}, fmt.Errorf("%w: unknown room type %q", ErrValidation, rt)
	}
	return info.PricePerNight, nil
}

func lookupRoomType(rt RoomType) (RoomTypeInfo, bool) {
	for _, info := range roomCatalog {
		if info.Type == rt {
			return info, true
		}
	}
	return RoomTypeInfo{}, false
}
