package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/usecase"
)

const customerColumns = `id, full_name, email, phone, status, created_at, updated_at`

// CustomerRepository implements usecase.CustomerRepository.
type CustomerRepository struct {
	db querier
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return newCustomerRepository(pool)
}

func newCustomerRepository(db querier) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create inserts a customer within a transaction.
func (r *CustomerRepository) Create(ctx context.Context, tx usecase.Transaction, customer *domain.Customer) error {
	q, err := pgxTx(tx)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, `
		INSERT INTO customers (`+customerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		customer.ID,
		customer.FullName,
		customer.Email,
		customer.Phone,
		string(customer.Status),
		timeToPgTimestamptz(customer.CreatedAt),
		timeToPgTimestamptz(customer.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return domain.ErrEmailAlreadyUsed
	}

	return err
}

// GetByID retrieves a customer by ID.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	return scanCustomer(r.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
}

// GetByIDForUpdate retrieves a customer by ID with a FOR UPDATE lock.
func (r *CustomerRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Customer, error) {
	q, err := pgxTx(tx)
	if err != nil {
		return nil, err
	}

	return scanCustomer(q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1 FOR UPDATE`, id))
}

// GetByEmail retrieves a customer by normalized email.
func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return scanCustomer(r.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE email = $1`, email))
}

// Update writes the customer's mutable fields.
func (r *CustomerRepository) Update(ctx context.Context, tx usecase.Transaction, customer *domain.Customer) error {
	q, err := pgxTx(tx)
	if err != nil {
		return err
	}

	tag, err := q.Exec(ctx, `
		UPDATE customers
		SET full_name = $2, email = $3, phone = $4, status = $5, updated_at = $6
		WHERE id = $1`,
		customer.ID,
		customer.FullName,
		customer.Email,
		customer.Phone,
		string(customer.Status),
		timeToPgTimestamptz(customer.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return domain.ErrEmailAlreadyUsed
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}

	return nil
}

// List lists customers in creation order.
func (r *CustomerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]*domain.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}

	return customers, rows.Err()
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var (
		c                    domain.Customer
		status               string
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&c.ID, &c.FullName, &c.Email, &c.Phone, &status, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}

		return nil, err
	}

	c.Status = domain.CustomerStatus(status)
	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time

	return &c, nil
}
