package handlers

import (
	"net/http"

	"github.com/shelfline/library-api/internal/api/httpx"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"service": "library-api",
		"status":  "ok",
	})
}
