package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/smyva-leather/storefront-backend/internal/domain/catalog"
	domain "github.com/smyva-leather/storefront-backend/internal/domain/order"
)

// Store keeps orders, products, and the stats record in process. It implements
// order.Repository for tests and local runs; the mutex is held across the
// status check and the write set, which gives the same exactly-once settlement
// guarantee the document database provides with a transaction.
type Store struct {
	mu       sync.RWMutex
	orders   map[string]*domain.Order
	products map[string]*catalog.Product
	stats    catalog.Stats
}

func NewStore() *Store {
	return &Store{
		orders:   make(map[string]*domain.Order),
		products: make(map[string]*catalog.Product),
	}
}

// SeedOrder inserts or replaces an order record.
func (s *Store) SeedOrder(order *domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = order.Clone()
}

// SeedProduct inserts or replaces a product record.
func (s *Store) SeedProduct(product catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := product
	s.products[product.ID] = &clone
}

// SetStats replaces the aggregate stats record.
func (s *Store) SetStats(stats catalog.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Order, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return order.Clone(), nil
}

func (s *Store) Settle(ctx context.Context, id string, paymentResult map[string]any) (*domain.Settlement, error) {
	_ = ctx
	if id == "" {
		return nil, fmt.Errorf("memory store: order id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	updated := current.Clone()
	settlement, err := updated.Settle(paymentResult)
	if err != nil {
		return nil, err
	}

	// A missing product record is created on the fly so the counters still
	// land somewhere inspectable, mirroring how increments behave upstream.
	for _, adj := range settlement.Adjustments {
		product, ok := s.products[adj.ProductID]
		if !ok {
			product = &catalog.Product{ID: adj.ProductID}
			s.products[adj.ProductID] = product
		}
		product.Stock -= adj.Quantity
		product.SoldCount += adj.Quantity
	}
	s.stats.TotalRevenue += settlement.Revenue
	s.stats.TotalStock -= settlement.ItemQuantity
	s.stats.TotalOrders++

	s.orders[id] = updated
	return settlement, nil
}

func (s *Store) MarkFailed(ctx context.Context, id string) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}

	updated := current.Clone()
	if err := updated.MarkFailed(); err != nil {
		return err
	}
	s.orders[id] = updated
	return nil
}

// Product returns a copy of the product record, if present.
func (s *Store) Product(id string) (catalog.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return catalog.Product{}, false
	}
	return *product, true
}

// Stats returns a copy of the aggregate stats record.
func (s *Store) Stats() catalog.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}
