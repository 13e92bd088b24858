package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeFullName(t *testing.T) {
	t.Parallel()

	t.Run("trimmed", func(t *testing.T) {
		name, err := NormalizeFullName("  Grace Hopper ")
		if err != nil || name != "Grace Hopper" {
			t.Fatalf("expected trimmed name, got %q %v", name, err)
		}
	})

	t.Run("too short", func(t *testing.T) {
		if _, err := NormalizeFullName(" x "); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("too long", func(t *testing.T) {
		if _, err := NormalizeFullName(strings.Repeat("a", MaxFullNameLength+1)); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	email, err := NormalizeEmail(" User@Example.COM ")
	if err != nil || email != "user@example.com" {
		t.Fatalf("expected lowercased email, got %q %v", email, err)
	}

	if _, err := NormalizeEmail("invalid-email"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "+1 (555) 123-4567", want: "+15551234567", ok: true},
		{in: "33612345678", want: "33612345678", ok: true},
		{in: "+0123", ok: false},
		{in: "abc", ok: false},
		{in: "+1234567890123456", ok: false},
	}

	for _, tt := range tests {
		got, err := NormalizePhone(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("NormalizePhone(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
		if !tt.ok && !errors.Is(err, ErrValidation) {
			t.Errorf("NormalizePhone(%q): expected ErrValidation, got %v", tt.in, err)
		}
	}
}

func TestValidateReason(t *testing.T) {
	t.Parallel()

	if err := ValidateReason("Top up"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateReason("  "); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err := ValidateReason(strings.Repeat("r", MaxReasonLength+1)); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestValidatePagination(t *testing.T) {
	t.Parallel()

	limit, offset := ValidatePagination(0, -5)
	if limit != DefaultPageSize || offset != 0 {
		t.Fatalf("unexpected defaults: %d %d", limit, offset)
	}

	limit, _ = ValidatePagination(MaxPageSize+10, 0)
	if limit != MaxPageSize {
		t.Fatalf("expected cap at %d, got %d", MaxPageSize, limit)
	}
}

func TestRoomCatalog(t *testing.T) {
	t.Parallel()

	types := RoomTypes()
	if len(types) != 3 {
		t.Fatalf("expected 3 room types, got %d", len(types))
	}
	types[0].Equipment[0].Name = "changed"
	if info, _ := RoomTypeStandard.Info(); info.Equipment[0].Name != "Single bed" {
		t.Error("catalog must not be mutable through RoomTypes")
	}

	rt, err := ParseRoomType("suite")
	if err != nil || rt != RoomTypeSuite {
		t.Fatalf("expected SUITE, got %q %v", rt, err)
	}
	price, _ := rt.PricePerNight()
	if !price.Equal(Euros(200)) {
		t.Errorf("expected 200 EUR, got %s", price)
	}
}
