// Package database maintains the relational reporting mirror: a SQLite copy
// of accepted order lines, populated by the web boundary and used only for a
// secondary reporting view. The core ordering system does not depend on it.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"pizzeria-system/internal/logger"
	"pizzeria-system/internal/menu"
	"pizzeria-system/internal/models"
)

// Mirror wraps the SQLite database holding the reporting copy.
type Mirror struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewMirror opens the SQLite database at path, creating the schema when
// needed. Use ":memory:" for tests.
func NewMirror(path string, log *logger.Logger) (*Mirror, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mirror database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate mirror schema: %w", err)
	}

	return &Mirror{db: db, logger: log}, nil
}

func migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS pizza_orders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	order_number INTEGER NOT NULL,
	flavor TEXT NOT NULL,
	size TEXT NOT NULL,
	add_ons TEXT,
	quantity INTEGER NOT NULL,
	customer_name TEXT NOT NULL,
	phone TEXT,
	address TEXT,
	total_price REAL NOT NULL,
	ordered_at TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending'
);
CREATE TABLE IF NOT EXISTS beverage_orders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	order_number INTEGER NOT NULL,
	beverage TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	customer_name TEXT NOT NULL,
	phone TEXT,
	address TEXT,
	total_price REAL NOT NULL,
	ordered_at TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending'
);
CREATE INDEX IF NOT EXISTS idx_pizza_orders_ordered_at ON pizza_orders(ordered_at);
CREATE INDEX IF NOT EXISTS idx_beverage_orders_ordered_at ON beverage_orders(ordered_at);
`
	_, err := db.Exec(schema)
	return err
}

// Close closes the database connection.
func (m *Mirror) Close() error {
	return m.db.Close()
}

// RecordOrder inserts one row per order line, priced against the catalog at
// recording time.
func (m *Mirror) RecordOrder(ctx context.Context, order models.Order, cat *menu.Catalog, customerName, phone, address string) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin mirror transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	orderedAt := order.CreatedAt.UTC().Format(time.RFC3339)

	for _, item := range order.Items {
		switch item.Kind {
		case models.KindPizza:
			price := cat.PizzaPrice(item.Name, item.Size())
			for _, addOn := range item.AddOns() {
				price += cat.AddOnPrice(addOn)
			}
			total := price * float64(item.Quantity)
			_, err = tx.ExecContext(ctx, `
				INSERT INTO pizza_orders (order_number, flavor, size, add_ons, quantity, customer_name, phone, address, total_price, ordered_at, status)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				order.Number, item.Name, item.Size(), strings.Join(item.AddOns(), ", "),
				item.Quantity, customerName, phone, address, total, orderedAt, string(order.Status))
		case models.KindBeverage:
			total := cat.BeveragePrice(item.Name) * float64(item.Quantity)
			_, err = tx.ExecContext(ctx, `
				INSERT INTO beverage_orders (order_number, beverage, quantity, customer_name, phone, address, total_price, ordered_at, status)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				order.Number, item.Name, item.Quantity, customerName, phone, address, total, orderedAt, string(order.Status))
		}
		if err != nil {
			return fmt.Errorf("failed to insert mirror row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit mirror transaction: %w", err)
	}
	return nil
}

// Row is one mirrored order line for the reporting view.
type Row struct {
	Kind         models.ItemKind `json:"kind"`
	OrderNumber  int             `json:"order_number"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	CustomerName string          `json:"customer_name"`
	Phone        string          `json:"phone,omitempty"`
	Address      string          `json:"address,omitempty"`
	TotalPrice   float64         `json:"total_price"`
	OrderedAt    string          `json:"ordered_at"`
	Status       string          `json:"status"`
}

// RecentOrders lists mirrored lines of both kinds, newest first.
func (m *Mirror) RecentOrders(ctx context.Context, limit int) ([]Row, error) {
	const query = `
		SELECT 'pizza' AS kind, order_number, flavor AS name, quantity, customer_name, phone, address, total_price, ordered_at, status
		FROM pizza_orders
		UNION ALL
		SELECT 'beverage' AS kind, order_number, beverage AS name, quantity, customer_name, phone, address, total_price, ordered_at, status
		FROM beverage_orders
		ORDER BY ordered_at DESC, order_number DESC
		LIMIT ?`

	rows, err := m.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query mirror rows: %w", err)
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		var r Row
		var kind string
		var phone, address sql.NullString
		if err := rows.Scan(&kind, &r.OrderNumber, &r.Name, &r.Quantity, &r.CustomerName,
			&phone, &address, &r.TotalPrice, &r.OrderedAt, &r.Status); err != nil {
			return nil, fmt.Errorf("failed to scan mirror row: %w", err)
		}
		r.Kind = models.ItemKind(kind)
		r.Phone = phone.String
		r.Address = address.String
		result = append(result, r)
	}
	return result, rows.Err()
}
