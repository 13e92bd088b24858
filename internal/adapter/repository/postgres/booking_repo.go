package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/usecase"
)

const (
	bookingColumns = `id, customer_id, room_type, room_quantity, check_in, nights, total_amount, currency, status, version, created_at, updated_at`
	paymentColumns = `id, booking_id, amount, currency, type, is_processed, processed_at, created_at`
)

// BookingRepository implements usecase.BookingRepository.
type BookingRepository struct {
	db querier
}

// NewBookingRepository creates a new BookingRepository.
func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return newBookingRepository(pool)
}

func newBookingRepository(db querier) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a booking and its payments.
func (r *BookingRepository) Create(ctx context.Context, tx usecase.Transaction, booking *domain.Booking) error {
	q, err := pgxTx(tx)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		booking.ID,
		booking.CustomerID,
		string(booking.RoomType),
		booking.RoomQuantity,
		timeToPgDate(booking.Stay.CheckIn()),
		booking.Stay.Nights(),
		decimalToNumeric(booking.TotalAmount.Amount()),
		string(booking.TotalAmount.Currency()),
		string(booking.Status()),
		booking.Version,
		timeToPgTimestamptz(booking.CreatedAt),
		timeToPgTimestamptz(booking.UpdatedAt),
	)
	if err != nil {
		return err
	}

	return insertPayments(ctx, q, booking.Payments())
}

// GetByID retrieves a booking with its payments.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return loadBooking(ctx, r.db, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
}

// GetByIDForUpdate retrieves a booking with a FOR UPDATE lock.
func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Booking, error) {
	q, err := pgxTx(tx)
	if err != nil {
		return nil, err
	}

	return loadBooking(ctx, q, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
}

// Save writes the status if the stored version still matches, then appends new payments.
func (r *BookingRepository) Save(ctx context.Context, tx usecase.Transaction, booking *domain.Booking) error {
	q, err := pgxTx(tx)
	if err != nil {
		return err
	}

	tag, err := q.Exec(ctx, `
		UPDATE bookings
		SET status = $2, version = version + 1, updated_at = $3
		WHERE id = $1 AND version = $4`,
		booking.ID,
		string(booking.Status()),
		timeToPgTimestamptz(booking.UpdatedAt),
		booking.Version,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: booking %s", domain.ErrConcurrentModification, booking.ID)
	}

	return insertPayments(ctx, q, booking.Payments())
}

// List lists bookings in creation order, optionally filtered by customer and status.
// Payments are not loaded.
func (r *BookingRepository) List(ctx context.Context, filter usecase.BookingFilter, limit, offset int) ([]*domain.Booking, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at, id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		row, err := scanBookingRow(rows)
		if err != nil {
			return nil, err
		}
		b, err := row.restore(nil)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

// bookingRow holds a scanned booking until its payments are loaded.
type bookingRow struct {
	params               domain.NewBookingParams
	checkIn              pgtype.Date
	nights               int
	status               string
	version              int64
	createdAt, updatedAt pgtype.Timestamptz
}

func loadBooking(ctx context.Context, q querier, query, id string) (*domain.Booking, error) {
	row, err := scanBookingRow(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	payments, err := loadPayments(ctx, q, row.params.ID)
	if err != nil {
		return nil, err
	}

	return row.restore(payments)
}

func scanBookingRow(row pgx.Row) (*bookingRow, error) {
	var (
		b                  bookingRow
		roomType, currency string
		total              pgtype.Numeric
	)

	err := row.Scan(
		&b.params.ID,
		&b.params.CustomerID,
		&roomType,
		&b.params.RoomQuantity,
		&b.checkIn,
		&b.nights,
		&total,
		&currency,
		&b.status,
		&b.version,
		&b.createdAt,
		&b.updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}

		return nil, err
	}

	b.params.RoomType = domain.RoomType(roomType)
	b.params.TotalAmount, err = numericToMoney(total, currency)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (b *bookingRow) restore(payments []*domain.Payment) (*domain.Booking, error) {
	return domain.RestoreBooking(
		b.params,
		b.checkIn.Time,
		b.nights,
		domain.BookingStatus(b.status),
		payments,
		b.version,
		b.createdAt.Time,
		b.updatedAt.Time,
	)
}

func loadPayments(ctx context.Context, q querier, bookingID string) ([]*domain.Payment, error) {
	rows, err := q.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM booking_payments
		WHERE booking_id = $1
		ORDER BY created_at, id`,
		bookingID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]*domain.Payment, 0, 2)
	for rows.Next() {
		var (
			p                      domain.Payment
			amount                 pgtype.Numeric
			currency, typ          string
			processedAt, createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&p.ID, &p.BookingID, &amount, &currency, &typ, &p.IsProcessed, &processedAt, &createdAt); err != nil {
			return nil, err
		}

		p.Amount, err = numericToMoney(amount, currency)
		if err != nil {
			return nil, err
		}
		p.Type = domain.PaymentType(typ)
		p.ProcessedAt = pgTimestamptzToTimePtr(processedAt)
		p.CreatedAt = createdAt.Time

		payments = append(payments, &p)
	}

	return payments, rows.Err()
}

// insertPayments appends payments; a booking holds at most one payment per type.
func insertPayments(ctx context.Context, q querier, payments []*domain.Payment) error {
	for _, p := range payments {
		_, err := q.Exec(ctx, `
			INSERT INTO booking_payments (`+paymentColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO NOTHING`,
			p.ID,
			p.BookingID,
			decimalToNumeric(p.Amount.Amount()),
			string(p.Amount.Currency()),
			string(p.Type),
			p.IsProcessed,
			timePtrToPgTimestamptz(p.ProcessedAt),
			timeToPgTimestamptz(p.CreatedAt),
		)
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s payment already recorded for booking %s", domain.ErrConcurrentModification, p.Type, p.BookingID)
		}
		if err != nil {
			return err
		}
	}

	return nil
}
