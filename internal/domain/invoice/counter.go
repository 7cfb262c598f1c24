package invoice

import (
	"time"

	ierr "github.com/brickline/storefront/internal/errors"
)

// Counter is the numbering authority for one series. At most one live counter
// row exists per (prefix, suffix) pair; next_number is only advanced by the
// allocator's atomic read-and-increment.
type Counter struct {
	ID         string    `db:"id" json:"id"`
	Prefix     string    `db:"prefix" json:"prefix"`
	Suffix     string    `db:"suffix" json:"suffix"`
	NextNumber int64     `db:"next_number" json:"next_number"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

func (c *Counter) Validate() error {
	if c.Prefix == "" && c.Suffix == "" {
		return ierr.NewError("series is required").
			WithHint("Counter must have a prefix or a suffix").
			Mark(ierr.ErrValidation)
	}
	if c.NextNumber < 1 {
		return ierr.NewError("next_number must be positive").
			WithHint("Counter must be seeded with a positive next number").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Allocation is the result of one successful counter allocation: the number
// the caller should use plus the series as it stood at allocation time.
type Allocation struct {
	Number int64
	Prefix string
	Suffix string
}
