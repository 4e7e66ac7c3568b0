package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleHealth(t *testing.T) {
	s := &Server{}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/health", nil)

	s.handleHealth(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCachedJSONResponse_SetsCacheControl(t *testing.T) {
	s := &Server{}
	w := httptest.NewRecorder()

	s.cachedJSONResponse(w, http.StatusOK, map[string]int{"n": 1})

	assert.Equal(t, "public, s-maxage=3600, stale-while-revalidate=7200", w.Header().Get("Cache-Control"))
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestErrorResponse(t *testing.T) {
	s := &Server{}
	w := httptest.NewRecorder()

	s.errorResponse(w, http.StatusBadRequest, "bad input")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"bad input"}`, w.Body.String())
}

func TestExtractClientID(t *testing.T) {
	s := &Server{}

	r := httptest.NewRequest(http.MethodGet, "/cities", nil)
	r.RemoteAddr = "10.1.2.3:51234"
	assert.Equal(t, "10.1.2.3", s.extractClientID(r))

	r.RemoteAddr = "no-port-here"
	assert.Equal(t, "no-port-here", s.extractClientID(r))
}
