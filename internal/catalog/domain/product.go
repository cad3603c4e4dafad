package domain

import "time"

type Product struct {
	ID        string
	Name      string
	Category  string
	Cost      int64
	Rating    int
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
