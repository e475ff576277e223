package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shelfline/library-api/internal/catalog"
	"github.com/shelfline/library-api/internal/store/shared"
)

// API is a minimal REST client for seeding author windows.
type API struct {
	baseURL string
	http    *http.Client
}

func NewAPI(baseURL string) *API {
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type pageEnvelope struct {
	Data []catalog.AuthorView `json:"data"`
	Meta shared.Meta          `json:"meta"`
}

// ListAuthors fetches one page of authors with their books. It is the
// reconciler's SeedFunc.
func (a *API) ListAuthors(ctx context.Context, page, limit int) ([]catalog.AuthorView, shared.Meta, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/authors?"+q.Encode(), nil)
	if err != nil {
		return nil, shared.Meta{}, err
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, shared.Meta{}, fmt.Errorf("list authors: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, shared.Meta{}, fmt.Errorf("list authors: unexpected status %d", resp.StatusCode)
	}

	var env pageEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, shared.Meta{}, fmt.Errorf("list authors: decode: %w", err)
	}
	return env.Data, env.Meta, nil
}
