package catalog

import (
	"time"

	"github.com/shelfline/library-api/internal/store/authors"
	"github.com/shelfline/library-api/internal/store/books"
)

// AuthorSummary is the slim author shape embedded in book views.
type AuthorSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	FullName  string `json:"fullName"`
}

// BookView is the caller-facing book shape.
type BookView struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	ISBN          string         `json:"isbn"`
	AuthorID      string         `json:"authorId"`
	Author        *AuthorSummary `json:"author,omitempty"`
	PublishedDate *time.Time     `json:"publishedDate,omitempty"`
	Genre         string         `json:"genre,omitempty"`
	Description   string         `json:"description,omitempty"`
	Pages         *int           `json:"pages,omitempty"`
	Language      string         `json:"language,omitempty"`
	Publisher     string         `json:"publisher,omitempty"`
	CoverImage    string         `json:"coverImage,omitempty"`
	Price         *float64       `json:"price,omitempty"`
	Available     bool           `json:"available"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// AuthorView is the caller-facing author shape. FullName and BookCount
// are derived; Books is populated where the surface calls for it.
type AuthorView struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	FullName    string     `json:"fullName"`
	Email       string     `json:"email"`
	Photo       string     `json:"photo,omitempty"`
	Bio         string     `json:"bio,omitempty"`
	Country     string     `json:"country,omitempty"`
	SocialMedia []string   `json:"socialMedia"`
	Books       []BookView `json:"books"`
	BookCount   int        `json:"bookCount"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func summaryFromRow(a authors.Author) *AuthorSummary {
	return &AuthorSummary{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		FullName:  a.FirstName + " " + a.LastName,
	}
}

func bookView(b books.Book, author *AuthorSummary) BookView {
	return BookView{
		ID:            b.ID,
		Title:         b.Title,
		ISBN:          b.ISBN,
		AuthorID:      b.AuthorID,
		Author:        author,
		PublishedDate: b.PublishedDate,
		Genre:         b.Genre,
		Description:   b.Description,
		Pages:         b.Pages,
		Language:      b.Language,
		Publisher:     b.Publisher,
		CoverImage:    b.CoverURL,
		Price:         b.Price,
		Available:     b.Available,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func authorView(a authors.Author, bookRows []books.Book) AuthorView {
	summary := summaryFromRow(a)
	views := make([]BookView, 0, len(bookRows))
	for _, b := range bookRows {
		views = append(views, bookView(b, summary))
	}
	return AuthorView{
		ID:          a.ID,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		FullName:    summary.FullName,
		Email:       a.Email,
		Photo:       a.PhotoURL,
		Bio:         a.Bio,
		Country:     a.Country,
		SocialMedia: a.SocialMedia,
		Books:       views,
		BookCount:   a.BookCount,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
