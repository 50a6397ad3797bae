package seller

import (
	"errors"
	"net/http"

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

// Register mounts the seller routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/seller", h.Create)
	mux.HandleFunc("POST /api/v1/seller/{$}", h.Create)
	mux.HandleFunc("GET /api/v1/seller", h.List)
	mux.HandleFunc("GET /api/v1/seller/{$}", h.List)
	mux.HandleFunc("GET /api/v1/seller/{id}", h.Get)
	mux.HandleFunc("PUT /api/v1/seller/{id}", h.Update)
	mux.HandleFunc("DELETE /api/v1/seller/{id}", h.Delete)
}

// Create handles POST /api/v1/seller/
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

// List handles GET /api/v1/seller/
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.ListAll(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, all)
}

// Get handles GET /api/v1/seller/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteDecodeError(w, r, err)
		return
	}

	s, err := h.service.GetOne(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s)
}

// Update handles PUT /api/v1/seller/{id}
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

// Delete handles DELETE /api/v1/seller/{id}
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

func (h *HTTPHandler) decode(w http.ResponseWriter, r *http.Request) (IncomingSeller, bool) {
	raw, err := httpx.ReadBody(r)
	if err != nil {
		httpx.WriteDecodeError(w, r, err)
		return IncomingSeller{}, false
	}
	in, err := ParseIncoming(raw)
	if err != nil {
		httpx.WriteDecodeError(w, r, err)
		return IncomingSeller{}, false
	}
	return in, true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.NotFound(w, r, "Seller not found")
		return
	}
	httpx.LogError(h.log, r, "seller request failed", err)
	httpx.InternalError(w, r)
}
