package ordering

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzeria-system/internal/database"
	"pizzeria-system/internal/logger"
)

func newTestHandler(t *testing.T) *Handler {
	log := logger.New("handler-test")
	svc := NewService(newTestStore(t), nil, log)
	mirror, err := database.NewMirror(":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mirror.Close() })
	return NewHandler(svc, mirror, log)
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandler_CreateListDeliverFlow(t *testing.T) {
	h := newTestHandler(t)
	mux := h.SetupRoutes()

	create := CreateOrderRequest{
		CustomerName: "Ana",
		Phone:        "555-0101",
		Items: []ItemRequest{
			{Kind: "pizza", Name: "Margherita", Quantity: 2, Size: "Large", AddOns: []string{"Extra cheese"}},
		},
	}

	rec := doJSON(t, mux, http.MethodPost, "/orders", create)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 1, created.Number)
	assert.Equal(t, 54, created.PrepTimeMinutes)
	assert.InDelta(t, 114.00, created.TotalValue, 0.001)

	rec = doJSON(t, mux, http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var queue []OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &queue))
	require.Len(t, queue, 1)

	rec = doJSON(t, mux, http.MethodPost, "/orders/1/status", map[string]string{"status": "in_preparation"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/orders/deliver", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/orders/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var delivered OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &delivered))
	assert.Equal(t, "delivered", string(delivered.Status))

	rec = doJSON(t, mux, http.MethodGet, "/orders", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &queue))
	assert.Empty(t, queue)

	// The mirror recorded the created order.
	rec = doJSON(t, mux, http.MethodGet, "/reports/recent", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []database.Row
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Margherita", rows[0].Name)
}

func TestHandler_ErrorMapping(t *testing.T) {
	h := newTestHandler(t)
	mux := h.SetupRoutes()

	// Unknown flavor fails validation.
	rec := doJSON(t, mux, http.MethodPost, "/orders", CreateOrderRequest{
		CustomerName: "Ana",
		Items:        []ItemRequest{{Kind: "pizza", Name: "Hawaiian", Quantity: 1}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Status update on an empty queue.
	rec = doJSON(t, mux, http.MethodPost, "/orders/99/status", map[string]string{"status": "in_preparation"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Malformed JSON body.
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString("{oops"))
	out := httptest.NewRecorder()
	mux.ServeHTTP(out, req)
	assert.Equal(t, http.StatusBadRequest, out.Code)

	// Delivering from an empty queue.
	rec = doJSON(t, mux, http.MethodPost, "/orders/deliver", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Unknown order number.
	rec = doJSON(t, mux, http.MethodGet, "/orders/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_MenuManagement(t *testing.T) {
	h := newTestHandler(t)
	mux := h.SetupRoutes()

	rec := doJSON(t, mux, http.MethodGet, "/menu", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Margherita")

	rec = doJSON(t, mux, http.MethodPut, "/menu/add-ons/Mushrooms", map[string]float64{"price": 4})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, mux, http.MethodDelete, "/menu/add-ons/Mushrooms", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, mux, http.MethodDelete, "/menu/add-ons/Mushrooms", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, mux, http.MethodPut, "/menu/flavors/Broken", map[string]interface{}{
		"ingredients": []string{"Dough"},
		"prices":      map[string]float64{"Small": 10},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_HealthCheck(t *testing.T) {
	h := newTestHandler(t)
	mux := h.SetupRoutes()

	rec := doJSON(t, mux, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
