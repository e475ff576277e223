package authors

import "time"

// Author is the persisted shape of an author row. BookCount is derived
// by counting referencing books on read; it is never stored.
type Author struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	PhotoURL    string
	Bio         string
	Country     string
	SocialMedia []string
	BookCount   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateRow carries normalized fields for an insert (trimmed names,
// lowercased email).
type CreateRow struct {
	FirstName   string
	LastName    string
	Email       string
	PhotoURL    string
	Bio         string
	Country     string
	SocialMedia []string
}

// ListFilters selects a page of authors.
type ListFilters struct {
	Search  string // folded free text over names and email
	Country string
	Page    int
	Limit   int
}
