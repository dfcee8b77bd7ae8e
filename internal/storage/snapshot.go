// Package storage persists the full ordering state as two JSON documents,
// one for orders and one for the catalog. Each save replaces the whole file
// atomically so a crash never leaves a partial snapshot behind.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"pizzeria-system/internal/logger"
	"pizzeria-system/internal/menu"
	"pizzeria-system/internal/models"
)

// OrdersDocument is the on-disk shape of the order state.
type OrdersDocument struct {
	Queue           []models.Order `json:"queue"`
	NextOrderNumber int            `json:"next_order_number"`
	History         []models.Order `json:"history"`
}

// Store reads and writes the snapshot documents.
type Store struct {
	ordersPath  string
	catalogPath string
	logger      *logger.Logger
}

// NewStore creates a snapshot store writing to the given file paths.
func NewStore(ordersPath, catalogPath string, log *logger.Logger) *Store {
	return &Store{
		ordersPath:  ordersPath,
		catalogPath: catalogPath,
		logger:      log,
	}
}

// SaveOrders writes the orders document.
func (s *Store) SaveOrders(doc OrdersDocument) error {
	if err := writeJSON(s.ordersPath, doc); err != nil {
		return fmt.Errorf("failed to save orders snapshot: %w", err)
	}
	return nil
}

// SaveCatalog writes the catalog document.
func (s *Store) SaveCatalog(cat *menu.Catalog) error {
	if err := writeJSON(s.catalogPath, cat); err != nil {
		return fmt.Errorf("failed to save catalog snapshot: %w", err)
	}
	return nil
}

// LoadOrders reads the orders document. A missing file yields the empty
// default state; an unreadable one logs a warning and yields the same
// default rather than failing startup.
func (s *Store) LoadOrders() OrdersDocument {
	def := OrdersDocument{NextOrderNumber: 1}

	data, err := os.ReadFile(s.ordersPath)
	if os.IsNotExist(err) {
		return def
	}
	if err != nil {
		s.warn("orders", err)
		return def
	}

	var doc OrdersDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		s.warn("orders", err)
		return def
	}
	if doc.NextOrderNumber < 1 {
		doc.NextOrderNumber = 1
	}
	return doc
}

// LoadCatalog reads the catalog document, falling back to the built-in
// default catalog when the file is missing, unreadable or violates the
// catalog invariant.
func (s *Store) LoadCatalog() *menu.Catalog {
	data, err := os.ReadFile(s.catalogPath)
	if os.IsNotExist(err) {
		return menu.DefaultCatalog()
	}
	if err != nil {
		s.warn("catalog", err)
		return menu.DefaultCatalog()
	}

	cat := menu.NewCatalog(nil)
	if err := json.Unmarshal(data, cat); err != nil {
		s.warn("catalog", err)
		return menu.DefaultCatalog()
	}
	if err := cat.Validate(); err != nil {
		s.warn("catalog", err)
		return menu.DefaultCatalog()
	}
	return cat
}

func (s *Store) warn(document string, err error) {
	if s.logger == nil {
		return
	}
	s.logger.Error("snapshot_load_failed",
		fmt.Sprintf("Failed to load %s snapshot, starting from defaults", document),
		"startup", err, map[string]interface{}{"document": document})
}

// writeJSON marshals v and replaces path atomically via a temp file rename.
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
