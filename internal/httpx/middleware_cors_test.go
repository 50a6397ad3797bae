package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORSMiddleware(t *testing.T) {
	reached := false
	handler := CORSMiddleware([]string{"http://localhost:3000", "http://localhost:5173"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			w.WriteHeader(http.StatusOK)
		}))

	tests := []struct {
		name          string
		method        string
		path          string
		origin        string
		requestMethod string
		wantCode      int
		wantOrigin    string
		wantReached   bool
	}{
		{"list books from allowed origin", http.MethodGet, "/api/v1/books", "http://localhost:5173", "", http.StatusOK, "http://localhost:5173", true},
		{"seller read from unknown origin", http.MethodGet, "/api/v1/seller/1", "http://evil.com", "", http.StatusOK, "", true},
		{"seller update preflight", http.MethodOptions, "/api/v1/seller/1", "http://localhost:3000", http.MethodPut, http.StatusNoContent, "http://localhost:3000", false},
		{"seller delete preflight", http.MethodOptions, "/api/v1/seller/7", "http://localhost:3000", http.MethodDelete, http.StatusNoContent, "http://localhost:3000", false},
		{"preflight from unknown origin", http.MethodOptions, "/api/v1/seller/1", "http://evil.com", http.MethodPut, http.StatusNoContent, "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reached = false
			req := httptest.NewRequest(tc.method, tc.path, nil)
			req.Header.Set("Origin", tc.origin)
			if tc.requestMethod != "" {
				req.Header.Set("Access-Control-Request-Method", tc.requestMethod)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tc.wantCode, w.Code)
			assert.Equal(t, tc.wantReached, reached)
			assert.Equal(t, tc.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			if tc.wantOrigin == "" {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Methods"))
				return
			}
			assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
			if tc.requestMethod != "" {
				assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), tc.requestMethod)
			}
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Request-Id")
		})
	}
}
