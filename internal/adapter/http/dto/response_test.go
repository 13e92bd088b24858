package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gohotel/internal/domain"
)

func TestMoneyFromDomainSerializesAmountAsString(t *testing.T) {
	resp := MoneyFromDomain(domain.MustMoney(decimal.RequireFromString("123.45"), domain.CurrencyEUR))

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"amount":"123.45","currency":"EUR"}` {
		t.Fatalf("unexpected json: %s", data)
	}
}

func TestWalletAndTransactionFromDomain(t *testing.T) {
	now := time.Now().UTC()
	wallet, err := domain.NewWallet("wal-1", "cust-1", now)
	if err != nil {
		t.Fatalf("NewWallet: %v", err)
	}
	tx, err := wallet.Credit(domain.Euros(80), "Top up", nil)
	if err != nil {
		t.Fatalf("Credit: %v", err)
	}

	resp := WalletFromDomain(wallet)
	if resp.ID != "wal-1" || resp.Balance.Amount.String() != "80" || resp.Balance.Currency != "EUR" {
		t.Fatalf("unexpected wallet response: %+v", resp)
	}

	txResp := TransactionFromDomain(tx)
	if txResp.Type != "CREDIT" || txResp.Reason != "Top up" || txResp.ProcessedAt == nil {
		t.Fatalf("unexpected transaction response: %+v", txResp)
	}
}

func TestBookingFromDomain(t *testing.T) {
	today := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	stay, err := domain.NewStay(today.AddDate(0, 0, 10), 2, today)
	if err != nil {
		t.Fatalf("NewStay: %v", err)
	}
	booking, err := domain.NewBooking(domain.NewBookingParams{
		ID:           "bkg-1",
		CustomerID:   "cust-1",
		RoomType:     domain.RoomTypeStandard,
		RoomQuantity: 2,
		Stay:         stay,
		TotalAmount:  domain.Euros(200),
	}, today)
	if err != nil {
		t.Fatalf("NewBooking: %v", err)
	}
	if _, err := booking.PayDeposit(); err != nil {
		t.Fatalf("PayDeposit: %v", err)
	}

	resp := BookingFromDomain(booking)
	if resp.CheckIn != "2030-01-11" || resp.CheckOut != "2030-01-13" || resp.Nights != 2 {
		t.Fatalf("unexpected stay: %+v", resp)
	}
	if resp.Status != "PENDING" || resp.Deposit.Amount.String() != "100" {
		t.Fatalf("unexpected status or deposit: %+v", resp)
	}
	if resp.TotalPaid.Amount.String() != "100" || resp.RemainingDue.Amount.String() != "100" {
		t.Fatalf("unexpected paid/remaining: %+v", resp)
	}
	if len(resp.Payments) != 1 || resp.Payments[0].Type != "DEPOSIT" {
		t.Fatalf("unexpected payments: %+v", resp.Payments)
	}

	list := BookingsFromDomain([]*domain.Booking{booking})
	if len(list) != 1 || list[0].ID != "bkg-1" {
		t.Fatalf("BookingsFromDomain returned %+v", list)
	}
}

func TestRoomTypeFromDomain(t *testing.T) {
	info, err := domain.RoomTypeSuite.Info()
	if err != nil {
		t.Fatalf("Info: %v", err)
	}

	resp := RoomTypeFromDomain(info)
	if resp.Type != "SUITE" || resp.PricePerNight.Amount.String() != "200" {
		t.Fatalf("unexpected room type: %+v", resp)
	}
	if len(resp.Equipment) != len(info.Equipment) {
		t.Fatalf("expected %d equipment items, got %d", len(info.Equipment), len(resp.Equipment))
	}
}
