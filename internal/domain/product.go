package domain

import "time"

// Product is the domain model for catalog items.
type Product struct {
	ID        string
	Name      string
	Price     float64
	Category  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
