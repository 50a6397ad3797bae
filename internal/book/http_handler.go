package book

import (
	"errors"
	"net/http"
	"strconv"

	"bookstore/internal/httpx"

	"github.com/sirupsen/logrus"
)

type HTTPHandler struct {
	service *Service
	log     logrus.FieldLogger
}

func NewHTTPHandler(service *Service, log logrus.FieldLogger) *HTTPHandler {
	return &HTTPHandler{service: service, log: log}
}

// Register mounts the book routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/books", h.Create)
	mux.HandleFunc("POST /api/v1/books/{$}", h.Create)
	mux.HandleFunc("GET /api/v1/books", h.List)
	mux.HandleFunc("GET /api/v1/books/{$}", h.List)
	mux.HandleFunc("GET /api/v1/books/{id}", h.Get)
	mux.HandleFunc("PUT /api/v1/books/{id}", h.Update)
	mux.HandleFunc("DELETE /api/v1/books/{id}", h.Delete)
}

// Create handles POST /api/v1/books/
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	created, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, created)
}

// List handles GET /api/v1/books/?seller_id=
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	var f Filter
	if raw := r.URL.Query().Get("seller_id"); raw != "" {
		sellerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || sellerID <= 0 {
			httpx.WriteDecodeError(w, r, httpx.NewValidationError("seller_id", "seller_id must be a positive integer"))
			return
		}
		f.SellerID = &sellerID
	}

	books, err := h.service.List(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, books)
}

// Get handles GET /api/v1/books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteDecodeError(w, r, err)
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, b)
}

// Update handles PUT /api/v1/books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteDecodeError(w, r, err)
		return
	}
	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	updated, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteDecodeError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func (h *HTTPHandler) decode(w http.ResponseWriter, r *http.Request) (IncomingBook, bool) {
	raw, err := httpx.ReadBody(r)
	if err != nil {
		httpx.WriteDecodeError(w, r, err)
		return IncomingBook{}, false
	}
	in, err := ParseIncoming(raw)
	if err != nil {
		httpx.WriteDecodeError(w, r, err)
		return IncomingBook{}, false
	}
	return in, true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.NotFound(w, r, "Book not found")
	case errors.Is(err, ErrSellerNotFound):
		httpx.NotFound(w, r, "Seller not found")
	default:
		httpx.LogError(h.log, r, "book request failed", err)
		httpx.InternalError(w, r)
	}
}
