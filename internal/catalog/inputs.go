package catalog

import (
	"time"

	"github.com/shelfline/library-api/internal/store/authors"
	"github.com/shelfline/library-api/internal/store/books"
	"github.com/shelfline/library-api/internal/store/shared"
	"github.com/shelfline/library-api/internal/validate"
)

// AuthorInput is the caller-facing shape for creating an author.
type AuthorInput struct {
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Email       string   `json:"email"`
	Photo       string   `json:"photo,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Country     string   `json:"country,omitempty"`
	SocialMedia []string `json:"socialMedia,omitempty"`
}

// NestedBookInput is a book input without an author reference. It is the
// shape embedded in composite author-creation requests; the orchestrator
// injects the just-created author's id.
type NestedBookInput struct {
	Title         string   `json:"title"`
	ISBN          string   `json:"isbn"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	Genre         string   `json:"genre,omitempty"`
	Description   string   `json:"description,omitempty"`
	Pages         *int     `json:"pages,omitempty"`
	Language      string   `json:"language,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	CoverImage    string   `json:"coverImage,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Available     *bool    `json:"available,omitempty"`
}

// BookInput is the standalone creation shape: a NestedBookInput plus the
// explicit author reference.
type BookInput struct {
	NestedBookInput
	AuthorID string `json:"authorId"`
}

// normalizeAuthor validates and normalizes an author input into a store
// row: trimmed names, lowercased email, sanitized social media list.
func normalizeAuthor(in AuthorInput) (authors.CreateRow, error) {
	firstName, err := validate.RequireBounded("firstName", in.FirstName, 2, 50)
	if err != nil {
		return authors.CreateRow{}, &ValidationError{Field: "firstName", Message: err.Error()}
	}
	lastName, err := validate.RequireBounded("lastName", in.LastName, 2, 50)
	if err != nil {
		return authors.CreateRow{}, &ValidationError{Field: "lastName", Message: err.Error()}
	}
	email, err := validate.Email(in.Email)
	if err != nil {
		return authors.CreateRow{}, &ValidationError{Field: "email", Message: err.Error()}
	}
	photo, err := validate.OptionalURL("photo", in.Photo)
	if err != nil {
		return authors.CreateRow{}, &ValidationError{Field: "photo", Message: err.Error()}
	}
	bio, err := validate.OptionalBounded("bio", in.Bio, 1000)
	if err != nil {
		return authors.CreateRow{}, &ValidationError{Field: "bio", Message: err.Error()}
	}
	country, err := validate.OptionalBounded("country", in.Country, 100)
	if err != nil {
		return authors.CreateRow{}, &ValidationError{Field: "country", Message: err.Error()}
	}
	return authors.CreateRow{
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		PhotoURL:    photo,
		Bio:         bio,
		Country:     country,
		SocialMedia: shared.CleanStrings(in.SocialMedia),
	}, nil
}

// normalizeBook validates and normalizes a book input into a store row:
// ISBN stripped of separators, language and availability defaulted.
func normalizeBook(in BookInput, now time.Time) (books.CreateRow, error) {
	title, err := validate.RequireBounded("title", in.Title, 1, 200)
	if err != nil {
		return books.CreateRow{}, &ValidationError{Field: "title", Message: err.Error()}
	}
	isbn := books.NormalizeISBN(in.ISBN)
	if !books.IsValidISBN(isbn) {
		return books.CreateRow{}, &ValidationError{Field: "isbn", Message: "must be 10 digits (with optional X) or 13 digits"}
	}
	published, err := validate.NotFuture("publishedDate", in.PublishedDate, now)
	if err != nil {
		return books.CreateRow{}, &ValidationError{Field: "publishedDate", Message: err.Error()}
	}
	genre, err := validate.OptionalBounded("genre", in.Genre, 100)
	if err != nil {
		return books.CreateRow{}, &ValidationError{Field: "genre", Message: err.Error()}
	}
	descr, err := validate.OptionalBounded("description", in.Description, 2000)
	if err != nil {
		return books.CreateRow{}, &ValidationError{Field: "description", Message: err.Error()}
	}
	if err := validate.OptionalIntRange("pages", in.Pages, 1, 10000); err != nil {
		return books.CreateRow{}, &ValidationError{Field: "pages", Message: err.Error()}
	}
	language, err := validate.OptionalBounded("language", in.Language, 30)
	if err != nil {
		return books.CreateRow{}, &ValidationError{Field: "language", Message: err.Error()}
	}
	if language == "" {
		language = "English"
	}
	publisher, err := validate.OptionalBounded("publisher", in.Publisher, 200)
	if err != nil {
		return books.CreateRow{}, &ValidationError{Field: "publisher", Message: err.Error()}
	}
	cover, err := validate.OptionalURL("coverImage", in.CoverImage)
	if err != nil {
		return books.CreateRow{}, &ValidationError{Field: "coverImage", Message: err.Error()}
	}
	if err := validate.OptionalPrice("price", in.Price, 10000); err != nil {
		return books.CreateRow{}, &ValidationError{Field: "price", Message: err.Error()}
	}
	available := true
	if in.Available != nil {
		available = *in.Available
	}
	return books.CreateRow{
		Title:         title,
		ISBN:          isbn,
		AuthorID:      in.AuthorID,
		PublishedDate: published,
		Genre:         genre,
		Description:   descr,
		Pages:         in.Pages,
		Language:      language,
		Publisher:     publisher,
		CoverURL:      cover,
		Price:         in.Price,
		Available:     available,
	}, nil
}
