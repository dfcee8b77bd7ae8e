// Package ordering owns the order lifecycle: the active queue, the delivered
// history, the order-number counter and the catalog, with a full snapshot
// persisted after every mutating operation.
package ordering

import (
	"context"
	"fmt"
	"sync"

	"pizzeria-system/internal/logger"
	"pizzeria-system/internal/menu"
	"pizzeria-system/internal/models"
	"pizzeria-system/internal/storage"
)

// Notifier receives best-effort lifecycle events. Implementations must not
// block for long and handle their own errors; a failed publish never fails
// the operation that triggered it.
type Notifier interface {
	OrderCreated(ctx context.Context, order models.Order)
	StatusChanged(ctx context.Context, order models.Order, old models.Status)
	OrderDelivered(ctx context.Context, order models.Order)
}

// CreateOrderRequest is the input for a new order.
type CreateOrderRequest struct {
	CustomerName string        `json:"customer_name"`
	Phone        string        `json:"phone"`
	Address      string        `json:"address,omitempty"`
	Notes        string        `json:"notes,omitempty"`
	Items        []ItemRequest `json:"items"`
}

// ItemRequest is one requested order line. Size and AddOns apply to pizzas
// only.
type ItemRequest struct {
	Kind     string   `json:"kind"`
	Name     string   `json:"name"`
	Quantity int      `json:"quantity"`
	Size     string   `json:"size,omitempty"`
	AddOns   []string `json:"add_ons,omitempty"`
}

// Service is the ordering system. All state is guarded by one lock:
// mutations run exclusively, reads may run concurrently with each other.
type Service struct {
	mu       sync.RWMutex
	catalog  *menu.Catalog
	queue    []models.Order
	history  []models.Order
	next     int
	store    *storage.Store
	notifier Notifier
	logger   *logger.Logger
}

// NewService restores the ordering system from the snapshot store. Missing
// or unreadable snapshots start the system from defaults.
func NewService(store *storage.Store, notifier Notifier, log *logger.Logger) *Service {
	doc := store.LoadOrders()
	return &Service{
		catalog:  store.LoadCatalog(),
		queue:    doc.Queue,
		history:  doc.History,
		next:     doc.NextOrderNumber,
		store:    store,
		notifier: notifier,
		logger:   log,
	}
}

// persist snapshots the full state. Called with the write lock held, after
// the in-memory mutation has been applied.
func (s *Service) persist() error {
	if err := s.store.SaveOrders(storage.OrdersDocument{
		Queue:           s.queue,
		NextOrderNumber: s.next,
		History:         s.history,
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := s.store.SaveCatalog(s.catalog); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// buildItem turns a requested line into a domain item, filling in the
// default pizza size when none was chosen.
func (s *Service) buildItem(req ItemRequest) (models.OrderItem, error) {
	switch models.ItemKind(req.Kind) {
	case models.KindPizza:
		size := req.Size
		if size == "" {
			size = s.catalog.DefaultSize()
		}
		return models.NewPizzaItem(req.Name, size, req.AddOns, req.Quantity), nil
	case models.KindBeverage:
		return models.NewBeverageItem(req.Name, req.Quantity), nil
	default:
		return models.OrderItem{}, fmt.Errorf("%w: unknown item kind %q", ErrValidation, req.Kind)
	}
}

// resolveAgainstCatalog rejects items whose name is absent from the catalog
// for their kind.
func (s *Service) resolveAgainstCatalog(item models.OrderItem) error {
	switch item.Kind {
	case models.KindPizza:
		if !s.catalog.HasFlavor(item.Name) {
			return fmt.Errorf("%w: pizza flavor %q is not on the menu", ErrValidation, item.Name)
		}
	case models.KindBeverage:
		if !s.catalog.HasBeverage(item.Name) {
			return fmt.Errorf("%w: beverage %q is not on the menu", ErrValidation, item.Name)
		}
	}
	return nil
}

// CreateOrder validates the request, appends the order to the queue and
// snapshots. The customer string combines name and phone; an address with no
// notes becomes the notes line, as the original order form did.
func (s *Service) CreateOrder(ctx context.Context, req CreateOrderRequest) (models.Order, error) {
	if req.CustomerName == "" {
		return models.Order{}, fmt.Errorf("%w: customer_name is required", ErrValidation)
	}
	if len(req.Items) == 0 {
		return models.Order{}, fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, ir := range req.Items {
		item, err := s.buildItem(ir)
		if err != nil {
			return models.Order{}, err
		}
		if err := s.resolveAgainstCatalog(item); err != nil {
			return models.Order{}, err
		}
		items = append(items, item)
	}

	notes := req.Notes
	if notes == "" && req.Address != "" {
		notes = "Address: " + req.Address
	}

	customer := req.CustomerName
	if req.Phone != "" {
		customer = fmt.Sprintf("%s (%s)", req.CustomerName, req.Phone)
	}

	order := models.NewOrder(s.next, customer, items, notes)
	s.queue = append(s.queue, order)
	s.next++

	if err := s.persist(); err != nil {
		return models.Order{}, err
	}

	s.logger.Info("order_created", fmt.Sprintf("Order #%d queued", order.Number), "", map[string]interface{}{
		"order_number": order.Number,
		"items":        len(order.Items),
		"prep_minutes": order.PrepTimeMinutes,
	})

	if s.notifier != nil {
		s.notifier.OrderCreated(ctx, order)
	}
	return order, nil
}

// ListQueue returns the queued orders in FIFO order.
func (s *Service) ListQueue() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Order(nil), s.queue...)
}

// FindByNumber scans the queue first, then the history.
func (s *Service) FindByNumber(number int) (models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.queue {
		if o.Number == number {
			return o, nil
		}
	}
	for _, o := range s.history {
		if o.Number == number {
			return o, nil
		}
	}
	return models.Order{}, fmt.Errorf("%w: order #%d", ErrNotFound, number)
}

// queueIndex returns the queue position of an order number, -1 if absent.
// Caller must hold the lock.
func (s *Service) queueIndex(number int) int {
	for i, o := range s.queue {
		if o.Number == number {
			return i
		}
	}
	return -1
}

// UpdateStatus sets the status of a queued order. Delivered orders are
// immutable, and the delivered state itself is only reachable through the
// deliver operation.
func (s *Service) UpdateStatus(ctx context.Context, number int, status string) (models.Order, error) {
	parsed, err := models.ParseStatus(status)
	if err != nil {
		return models.Order{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if parsed == models.StatusDelivered {
		return models.Order{}, fmt.Errorf("%w: delivered is set by the deliver operation", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.queueIndex(number)
	if i < 0 {
		return models.Order{}, fmt.Errorf("%w: order #%d is not in the queue", ErrNotFound, number)
	}

	old := s.queue[i].Status
	s.queue[i].Status = parsed

	if err := s.persist(); err != nil {
		return models.Order{}, err
	}

	order := s.queue[i]
	if s.notifier != nil {
		s.notifier.StatusChanged(ctx, order, old)
	}
	return order, nil
}

// DeliverNext delivers the order at the head of the queue.
func (s *Service) DeliverNext(ctx context.Context) (models.Order, error) {
	return s.DeliverAt(ctx, 0)
}

// DeliverAt removes the order at the given zero-based queue position, marks
// it delivered and moves it to the history.
func (s *Service) DeliverAt(ctx context.Context, position int) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if position < 0 || position >= len(s.queue) {
		return models.Order{}, fmt.Errorf("%w: queue position %d", ErrNotFound, position)
	}
	return s.deliverLocked(ctx, position)
}

// DeliverNumber delivers the queued order with the given number.
func (s *Service) DeliverNumber(ctx context.Context, number int) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.queueIndex(number)
	if i < 0 {
		return models.Order{}, fmt.Errorf("%w: order #%d is not in the queue", ErrNotFound, number)
	}
	return s.deliverLocked(ctx, i)
}

func (s *Service) deliverLocked(ctx context.Context, i int) (models.Order, error) {
	order := s.queue[i]
	s.queue = append(s.queue[:i], s.queue[i+1:]...)
	order.Status = models.StatusDelivered
	s.history = append(s.history, order)

	if err := s.persist(); err != nil {
		return models.Order{}, err
	}

	s.logger.Info("order_delivered", fmt.Sprintf("Order #%d delivered", order.Number), "", map[string]interface{}{
		"order_number": order.Number,
	})

	if s.notifier != nil {
		s.notifier.OrderDelivered(ctx, order)
	}
	return order, nil
}

// AddItem appends an item to a queued order and recomputes its preparation
// estimate. Like the original order-editing flow, the name is not checked
// against the catalog; unknown names price at zero.
func (s *Service) AddItem(ctx context.Context, number int, req ItemRequest) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.queueIndex(number)
	if i < 0 {
		return models.Order{}, fmt.Errorf("%w: order #%d is not in the queue", ErrNotFound, number)
	}

	item, err := s.buildItem(req)
	if err != nil {
		return models.Order{}, err
	}

	s.queue[i].AddItem(item)
	if err := s.persist(); err != nil {
		return models.Order{}, err
	}
	return s.queue[i], nil
}

// RemoveItem deletes the item at the given zero-based position from a queued
// order and recomputes its preparation estimate.
func (s *Service) RemoveItem(ctx context.Context, number, index int) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.queueIndex(number)
	if i < 0 {
		return models.Order{}, fmt.Errorf("%w: order #%d is not in the queue", ErrNotFound, number)
	}

	if _, ok := s.queue[i].RemoveItem(index); !ok {
		return models.Order{}, fmt.Errorf("%w: item index %d", ErrNotFound, index)
	}

	if err := s.persist(); err != nil {
		return models.Order{}, err
	}
	return s.queue[i], nil
}

// SetNotes replaces the free-text notes of a queued order.
func (s *Service) SetNotes(ctx context.Context, number int, notes string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.queueIndex(number)
	if i < 0 {
		return models.Order{}, fmt.Errorf("%w: order #%d is not in the queue", ErrNotFound, number)
	}

	s.queue[i].Notes = notes
	if err := s.persist(); err != nil {
		return models.Order{}, err
	}
	return s.queue[i], nil
}

// OrderTotal prices an order against the current catalog.
func (s *Service) OrderTotal(order models.Order) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return order.TotalValue(s.catalog)
}

// Catalog returns a copy of the current menu.
func (s *Service) Catalog() *menu.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Clone()
}

// SetFlavor upserts a pizza flavor. The flavor must price every size in the
// catalog's size order.
func (s *Service) SetFlavor(ctx context.Context, name string, flavor menu.Flavor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, size := range s.catalog.Sizes {
		if _, ok := flavor.Prices[size]; !ok {
			return fmt.Errorf("%w: flavor %q has no price for size %q", ErrValidation, name, size)
		}
	}
	s.catalog.SetFlavor(name, flavor)
	return s.persist()
}

// RemoveFlavor deletes a flavor from the menu.
func (s *Service) RemoveFlavor(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.catalog.RemoveFlavor(name) {
		return fmt.Errorf("%w: flavor %q", ErrNotFound, name)
	}
	return s.persist()
}

// SetAddOn upserts an add-on price.
func (s *Service) SetAddOn(ctx context.Context, name string, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog.SetAddOn(name, price)
	return s.persist()
}

// RemoveAddOn deletes an add-on from the menu.
func (s *Service) RemoveAddOn(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.catalog.RemoveAddOn(name) {
		return fmt.Errorf("%w: add-on %q", ErrNotFound, name)
	}
	return s.persist()
}

// SetBeverage upserts a beverage.
func (s *Service) SetBeverage(ctx context.Context, name string, beverage menu.Beverage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog.SetBeverage(name, beverage)
	return s.persist()
}

// RemoveBeverage deletes a beverage from the menu.
func (s *Service) RemoveBeverage(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.catalog.RemoveBeverage(name) {
		return fmt.Errorf("%w: beverage %q", ErrNotFound, name)
	}
	return s.persist()
}
