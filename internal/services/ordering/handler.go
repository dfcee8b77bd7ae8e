package ordering

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"pizzeria-system/internal/database"
	"pizzeria-system/internal/logger"
	"pizzeria-system/internal/menu"
	"pizzeria-system/internal/models"
)

// Handler is the thin HTTP adapter over the ordering service. It translates
// requests into service calls and maps error kinds to status codes; no
// business logic lives here.
type Handler struct {
	service *Service
	mirror  *database.Mirror
	logger  *logger.Logger
}

// NewHandler creates the HTTP handler. The mirror may be nil, in which case
// the relational reporting view is disabled.
func NewHandler(service *Service, mirror *database.Mirror, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		mirror:  mirror,
		logger:  log,
	}
}

// SetupRoutes registers all endpoints on a new mux.
func (h *Handler) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.HealthCheck)

	mux.HandleFunc("POST /orders", h.CreateOrder)
	mux.HandleFunc("GET /orders", h.ListQueue)
	mux.HandleFunc("GET /orders/{number}", h.GetOrder)
	mux.HandleFunc("POST /orders/deliver", h.DeliverOrder)
	mux.HandleFunc("POST /orders/{number}/status", h.UpdateStatus)
	mux.HandleFunc("POST /orders/{number}/items", h.AddItem)
	mux.HandleFunc("DELETE /orders/{number}/items/{index}", h.RemoveItem)
	mux.HandleFunc("PUT /orders/{number}/notes", h.SetNotes)

	mux.HandleFunc("GET /reports/sales", h.SalesReport)
	mux.HandleFunc("GET /reports/recent", h.RecentMirrorOrders)

	mux.HandleFunc("GET /menu", h.GetMenu)
	mux.HandleFunc("PUT /menu/flavors/{name}", h.SetFlavor)
	mux.HandleFunc("DELETE /menu/flavors/{name}", h.RemoveFlavor)
	mux.HandleFunc("PUT /menu/add-ons/{name}", h.SetAddOn)
	mux.HandleFunc("DELETE /menu/add-ons/{name}", h.RemoveAddOn)
	mux.HandleFunc("PUT /menu/beverages/{name}", h.SetBeverage)
	mux.HandleFunc("DELETE /menu/beverages/{name}", h.RemoveBeverage)

	return mux
}

// OrderResponse is an order plus its catalog-priced total.
type OrderResponse struct {
	models.Order
	TotalValue  float64 `json:"total_value"`
	Description string  `json:"description"`
}

func (h *Handler) orderResponse(order models.Order) OrderResponse {
	return OrderResponse{
		Order:       order,
		TotalValue:  h.service.OrderTotal(order),
		Description: order.Describe(),
	}
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "pizzeria",
	})
}

// CreateOrder handles POST /orders.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req CreateOrderRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, fmt.Errorf("%w: %v", ErrValidation, err), requestID)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), req)
	if err != nil {
		h.logger.Error("order_creation_failed", "Failed to create order", requestID, err, map[string]interface{}{
			"customer_name": req.CustomerName,
		})
		h.writeError(w, err, requestID)
		return
	}

	// The relational mirror is a secondary reporting view; failures are
	// logged, never surfaced to the caller.
	if h.mirror != nil {
		if err := h.mirror.RecordOrder(r.Context(), order, h.service.Catalog(), req.CustomerName, req.Phone, req.Address); err != nil {
			h.logger.Error("mirror_record_failed", "Failed to record order in reporting mirror", requestID, err, map[string]interface{}{
				"order_number": order.Number,
			})
		}
	}

	h.writeJSON(w, http.StatusCreated, h.orderResponse(order))
}

// ListQueue handles GET /orders.
func (h *Handler) ListQueue(w http.ResponseWriter, r *http.Request) {
	queue := h.service.ListQueue()
	responses := make([]OrderResponse, 0, len(queue))
	for _, order := range queue {
		responses = append(responses, h.orderResponse(order))
	}
	h.writeJSON(w, http.StatusOK, responses)
}

// GetOrder handles GET /orders/{number}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	number, err := pathInt(r, "number")
	if err != nil {
		h.writeError(w, fmt.Errorf("%w: %v", ErrValidation, err), requestID)
		return
	}

	order, err := h.service.FindByNumber(number)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	h.writeJSON(w, http.StatusOK, h.orderResponse(order))
}

type deliverRequest struct {
	Position *int `json:"position,omitempty"`
	Number   *int `json:"number,omitempty"`
}

// DeliverOrder handles POST /orders/deliver. An empty body delivers the head
// of the queue; position and number select an explicit order.
func (h *Handler) DeliverOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req deliverRequest
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, fmt.Errorf("%w: %v", ErrValidation, err), requestID)
		return
	}

	var (
		order models.Order
		err   error
	)
	switch {
	case req.Number != nil:
		order, err = h.service.DeliverNumber(r.Context(), *req.Number)
	case req.Position != nil:
		order, err = h.service.DeliverAt(r.Context(), *req.Position)
	default:
		order, err = h.service.DeliverNext(r.Context())
	}
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	h.writeJSON(w, http.StatusOK, h.orderResponse(order))
}

// UpdateStatus handles POST /orders/{number}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	number, err := pathInt(r, "number")
	if err != nil {
		h.writeError(w, fmt.Errorf("%w: %v", ErrValidation, err), requestID)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, fmt.Errorf("%w: %v", ErrValidation, err), requestID)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), number, req.Status)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	h.writeJSON(w, http.StatusOK, h.orderResponse(order))
}

// AddItem handles POST /orders/{number}/items.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	number, err := pathInt(r, "number")
	if err != nil {
		h.writeError(w, fmt.Errorf("%w: %v", ErrValidation, err), requestID)
		return
	}

	var req ItemRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, fmt.Errorf("%w: %v", ErrValidation, err), requestID)
		return
	}

	order, err := h.service.AddItem(r.Context(), number, req)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	h.writeJSON(w, http.StatusOK, h.orderResponse(order))
}

// RemoveItem handles DELETE /orders/{number}/items/{index}.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	number, err := pathInt(r, "number")
	if err != nil {
		h.writeError(w, fmt.Errorf("%w: %v", ErrValidation, err), requestID)
		return
	}
	index, err := pathInt(r, "index")
	if err != nil {
		h.writeError(w, fmt.Errorf("%w: %v", ErrValidation, err), requestID)
		return
	}

	order, err := h.service.RemoveItem(r.Context(), number, index)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	h.writeJSON(w, http.StatusOK, h.orderResponse(order))
}

// SetNotes handles PUT /orders/{number}/notes.
func (h *Handler) SetNotes(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	number, err := pathInt(r, "number")
	if err != nil {
		h.writeError(w, fmt.Errorf("%w: %v", ErrValidation, err), requestID)
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, fmt.Errorf("%w: %v", ErrValidation, err), requestID)
		return
	}

	order, err := h.service.SetNotes(r.Context(), number, req.Notes)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	h.writeJSON(w, http.StatusOK, h.orderResponse(order))
}

// SalesReport handles GET /reports/sales.
func (h *Handler) SalesReport(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.SalesReport())
}

// RecentMirrorOrders handles GET /reports/recent, the secondary reporting
// view backed by the relational mirror.
func (h *Handler) RecentMirrorOrders(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if h.mirror == nil {
		h.writeErrorResponse(w, http.StatusServiceUnavailable, "reporting mirror is not configured", requestID)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			h.writeError(w, fmt.Errorf("%w: invalid limit %q", ErrValidation, v), requestID)
			return
		}
		limit = n
	}

	rows, err := h.mirror.RecentOrders(r.Context(), limit)
	if err != nil {
		h.logger.Error("mirror_query_failed", "Failed to query reporting mirror", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusInternalServerError, "internal server error", requestID)
		return
	}
	if rows == nil {
		rows = []database.Row{}
	}
	h.writeJSON(w, http.StatusOK, rows)
}

// GetMenu handles GET /menu.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Catalog())
}

// SetFlavor handles PUT /menu/flavors/{name}.
func (h *Handler) SetFlavor(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var flavor menu.Flavor
	if err := decodeBody(r, &flavor); err != nil {
		h.writeError(w, fmt.Errorf("%w: %v", ErrValidation, err), requestID)
		return
	}

	if err := h.service.SetFlavor(r.Context(), r.PathValue("name"), flavor); err != nil {
		h.writeError(w, err, requestID)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"name": r.PathValue("name")})
}

// RemoveFlavor handles DELETE /menu/flavors/{name}.
func (h *Handler) RemoveFlavor(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	if err := h.service.RemoveFlavor(r.Context(), r.PathValue("name")); err != nil {
		h.writeError(w, err, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetAddOn handles PUT /menu/add-ons/{name}.
func (h *Handler) SetAddOn(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req struct {
		Price float64 `json:"price"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, fmt.Errorf("%w: %v", ErrValidation, err), requestID)
		return
	}

	if err := h.service.SetAddOn(r.Context(), r.PathValue("name"), req.Price); err != nil {
		h.writeError(w, err, requestID)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"name": r.PathValue("name")})
}

// RemoveAddOn handles DELETE /menu/add-ons/{name}.
func (h *Handler) RemoveAddOn(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	if err := h.service.RemoveAddOn(r.Context(), r.PathValue("name")); err != nil {
		h.writeError(w, err, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetBeverage handles PUT /menu/beverages/{name}.
func (h *Handler) SetBeverage(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var beverage menu.Beverage
	if err := decodeBody(r, &beverage); err != nil {
		h.writeError(w, fmt.Errorf("%w: %v", ErrValidation, err), requestID)
		return
	}

	if err := h.service.SetBeverage(r.Context(), r.PathValue("name"), beverage); err != nil {
		h.writeError(w, err, requestID)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"name": r.PathValue("name")})
}

// RemoveBeverage handles DELETE /menu/beverages/{name}.
func (h *Handler) RemoveBeverage(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	if err := h.service.RemoveBeverage(r.Context(), r.PathValue("name")); err != nil {
		h.writeError(w, err, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func pathInt(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, r.PathValue(name))
	}
	return n, nil
}

// writeError maps service error kinds to HTTP status codes.
func (h *Handler) writeError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, ErrValidation):
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
	case errors.Is(err, ErrNotFound):
		h.writeErrorResponse(w, http.StatusNotFound, err.Error(), requestID)
	case errors.Is(err, ErrPersistence):
		h.writeErrorResponse(w, http.StatusInternalServerError, err.Error(), requestID)
	default:
		h.writeErrorResponse(w, http.StatusInternalServerError, "internal server error", requestID)
	}
}

func (h *Handler) writeErrorResponse(w http.ResponseWriter, status int, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":      message,
		"request_id": requestID,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", "", err, nil)
	}
}
