package domain

import (
	"fmt"
	"strings"
	"time"
)

// CustomerStatus tells whether a customer may credit and book.
type CustomerStatus string

const (
	CustomerStatusActive    CustomerStatus = "ACTIVE"
	CustomerStatusSuspended CustomerStatus = "SUSPENDED"
)

// Customer is a hotel guest owning one wallet and any number of bookings.
type Customer struct {
	ID        string
	FullName  string
	Email     string
	Phone     string
	Status    CustomerStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCustomer validates and normalizes a new customer's details.
func NewCustomer(id, fullName, email, phone string, now time.Time) (*Customer, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: customer id cannot be empty", ErrValidation)
	}
	name, err := NormalizeFullName(fullName)
	if err != nil {
		return nil, err
	}
	email, err = NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	phone, err = NormalizePhone(phone)
	if err != nil {
		return nil, err
	}

	return &Customer{
		ID:        id,
		FullName:  name,
		Email:     email,
		Phone:     phone,
		Status:    CustomerStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsActive reports whether the customer is allowed to transact.
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

// UpdateContact replaces email and phone. Empty values keep the current one.
func (c *Customer) UpdateContact(email, phone string) error {
	newEmail, newPhone := c.Email, c.Phone
	var err error
	if strings.TrimSpace(email) != "" {
		if newEmail, err = NormalizeEmail(email); err != nil {
			return err
		}
	}
	if strings.TrimSpace(phone) != "" {
		if newPhone, err = NormalizePhone(phone); err != nil {
			return err
		}
	}

	c.Email, c.Phone = newEmail, newPhone
	c.touch()
	return nil
}

// Rename changes the full name.
func (c *Customer) Rename(fullName string) error {
	name, err := NormalizeFullName(fullName)
	if err != nil {
		return err
	}
	c.FullName = name
	c.touch()
	return nil
}

// Suspend blocks credits and new bookings.
func (c *Customer) Suspend() error {
	if c.Status == CustomerStatusSuspended {
		return fmt.Errorf("%w: customer %s already suspended", ErrValidation, c.ID)
	}
	c.Status = CustomerStatusSuspended
	c.touch()
	return nil
}

// Reactivate lifts a suspension.
func (c *Customer) Reactivate() error {
	if c.Status == CustomerStatusActive {
		return fmt.Errorf("%w: customer %s already active", ErrValidation, c.ID)
	}
	c.Status = CustomerStatusActive
	c.touch()
	return nil
}

// SameAs compares customers by identity.
func (c *Customer) SameAs(other *Customer) bool {
	return other != nil && c.ID == other.ID
}

func (c *Customer) touch() {
	c.UpdatedAt = time.Now().UTC()
}
