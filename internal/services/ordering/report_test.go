package ordering

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzeria-system/internal/logger"
	"pizzeria-system/internal/models"
	"pizzeria-system/internal/storage"
)

func TestSalesReport_EmptyHistory(t *testing.T) {
	svc, _ := newTestService(t)

	report := svc.SalesReport()
	assert.Equal(t, 0, report.TotalOrders)
	assert.Equal(t, 0.0, report.TotalRevenue)
	assert.Equal(t, 0.0, report.AverageTicket)
	assert.Empty(t, report.TopItems)
	assert.Empty(t, report.DailyRevenue)
}

func TestSalesReport_QueuedOrdersAreExcluded(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateOrder(context.Background(), margheritaRequest("Ana"))
	require.NoError(t, err)

	report := svc.SalesReport()
	assert.Equal(t, 0, report.TotalOrders)
}

func TestSalesReport_AggregatesDeliveredOrders(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// Order 1: 2x Large Margherita + Extra cheese (114) + 1x Coca-Cola (6).
	_, err := svc.CreateOrder(ctx, CreateOrderRequest{
		CustomerName: "Ana",
		Items: []ItemRequest{
			{Kind: "pizza", Name: "Margherita", Quantity: 2, Size: "Large", AddOns: []string{"Extra cheese"}},
			{Kind: "beverage", Name: "Coca-Cola Can", Quantity: 1},
		},
	})
	require.NoError(t, err)

	// Order 2: 3x Coca-Cola (18).
	_, err = svc.CreateOrder(ctx, CreateOrderRequest{
		CustomerName: "Bob",
		Items: []ItemRequest{
			{Kind: "beverage", Name: "Coca-Cola Can", Quantity: 3},
		},
	})
	require.NoError(t, err)

	_, err = svc.DeliverNext(ctx)
	require.NoError(t, err)
	_, err = svc.DeliverNext(ctx)
	require.NoError(t, err)

	report := svc.SalesReport()
	assert.Equal(t, 2, report.TotalOrders)
	assert.InDelta(t, 138.00, report.TotalRevenue, 0.001)
	assert.InDelta(t, 69.00, report.AverageTicket, 0.001)

	require.Len(t, report.TopItems, 2)
	assert.Equal(t, "Coca-Cola Can", report.TopItems[0].Name)
	assert.Equal(t, 4, report.TopItems[0].Quantity)
	assert.Equal(t, "Margherita", report.TopItems[1].Name)
	assert.Equal(t, 2, report.TopItems[1].Quantity)

	require.Len(t, report.DailyRevenue, 1)
	assert.InDelta(t, 138.00, report.DailyRevenue[0].Revenue, 0.001)
}

func TestSalesReport_DailyRevenueNewestFirst(t *testing.T) {
	store := newTestStore(t)

	today := models.NewOrder(1, "Ana", []models.OrderItem{
		models.NewBeverageItem("Coca-Cola Can", 2),
	}, "")
	today.Status = models.StatusDelivered

	yesterday := models.NewOrder(2, "Bob", []models.OrderItem{
		models.NewBeverageItem("Orange Juice", 2),
	}, "")
	yesterday.CreatedAt = yesterday.CreatedAt.AddDate(0, 0, -1)
	yesterday.Status = models.StatusDelivered

	require.NoError(t, store.SaveOrders(storage.OrdersDocument{
		NextOrderNumber: 3,
		History:         []models.Order{yesterday, today},
	}))

	svc := NewService(store, nil, logger.New("ordering-test"))
	report := svc.SalesReport()

	require.Len(t, report.DailyRevenue, 2)
	assert.Equal(t, today.CreatedAt.Local().Format("2006-01-02"), report.DailyRevenue[0].Date)
	assert.Equal(t, yesterday.CreatedAt.Local().Format("2006-01-02"), report.DailyRevenue[1].Date)
	assert.InDelta(t, 12.00, report.DailyRevenue[0].Revenue, 0.001)
	assert.InDelta(t, 15.00, report.DailyRevenue[1].Revenue, 0.001)
}

func TestSalesReport_TopItemsCappedAtFiveWithStableTies(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	beverages := []string{"Coca-Cola Can", "Pepsi Can", "Orange Juice", "Lemon Juice", "Pineapple Juice", "Mineral Water 500ml"}
	items := make([]ItemRequest, 0, len(beverages))
	for _, name := range beverages {
		items = append(items, ItemRequest{Kind: "beverage", Name: name, Quantity: 1})
	}

	_, err := svc.CreateOrder(ctx, CreateOrderRequest{CustomerName: "Ana", Items: items})
	require.NoError(t, err)
	_, err = svc.DeliverNext(ctx)
	require.NoError(t, err)

	report := svc.SalesReport()
	require.Len(t, report.TopItems, 5)

	// All quantities tie at 1, so ranking keeps first-encountered order.
	for i, item := range report.TopItems {
		assert.Equal(t, beverages[i], item.Name)
	}
}
