package store

import (
	"encoding/json"
	"sort"
	"strconv"
	"sync"

	"jabatata-pos/internal/model"
	"jabatata-pos/internal/repository"

	"go.uber.org/zap"
)

// Storage keys. The v3 names are inherited from earlier generations of the
// system; existing installations depend on them.
const (
	SalesKey    = "jabatata_v3_sales"
	GoalKey     = "jabatata_v3_meta"
	ProductsKey = "jabatata_v3_products"
)

// Store owns the three top-level state collections: the sale history, the
// custom menu entries, and the monthly goal. Sales are held in a keyed map for
// O(1) replace-or-insert; the date-descending view is derived on read. Every
// mutation synchronously re-persists all three values as one unit.
type Store struct {
	mu        sync.RWMutex
	snapshots repository.SnapshotRepository
	logger    *zap.Logger

	sales  map[string]model.Sale
	order  []string // sale ids in insertion sequence, for stable tie-breaks
	custom []model.Product
	goal   float64
}

func New(snapshots repository.SnapshotRepository, logger *zap.Logger) *Store {
	return &Store{
		snapshots: snapshots,
		logger:    logger,
		sales:     map[string]model.Sale{},
		goal:      model.DefaultMonthlyGoal,
	}
}

// Load reads the persisted state. A missing or unparsable value silently
// falls back to its default: empty history, empty custom menu (so the catalog
// equals the built-in menu) and the default goal.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw, err := s.snapshots.Get(SalesKey); err == nil {
		var sales []model.Sale
		if err := json.Unmarshal([]byte(raw), &sales); err == nil {
			s.sales = make(map[string]model.Sale, len(sales))
			s.order = make([]string, 0, len(sales))
			for _, sale := range sales {
				if _, seen := s.sales[sale.ID]; !seen {
					s.order = append(s.order, sale.ID)
				}
				s.sales[sale.ID] = sale
			}
		} else {
			s.logger.Warn("ignoring unparsable sales snapshot", zap.Error(err))
		}
	}

	if raw, err := s.snapshots.Get(ProductsKey); err == nil {
		var products []model.Product
		if err := json.Unmarshal([]byte(raw), &products); err == nil {
			s.custom = products
		} else {
			s.logger.Warn("ignoring unparsable products snapshot", zap.Error(err))
		}
	}

	if raw, err := s.snapshots.Get(GoalKey); err == nil {
		if goal, err := strconv.ParseFloat(raw, 64); err == nil {
			s.goal = goal
		} else {
			s.logger.Warn("ignoring unparsable goal snapshot", zap.Error(err))
		}
	}
}

// Sales returns the history sorted by timestamp descending. Equal timestamps
// keep their insertion order.
func (s *Store) Sales() []model.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedSalesLocked()
}

func (s *Store) sortedSalesLocked() []model.Sale {
	out := make([]model.Sale, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.sales[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

func (s *Store) Sale(id string) (model.Sale, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sale, ok := s.sales[id]
	return sale, ok
}

// UpsertSale replaces the record with the same id or inserts a new one, then
// persists. The collection size changes only on insert.
func (s *Store) UpsertSale(sale model.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sales[sale.ID]; !exists {
		s.order = append(s.order, sale.ID)
	}
	s.sales[sale.ID] = sale
	return s.persistLocked()
}

func (s *Store) SaleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sales)
}

// CustomProducts returns the admin-managed menu entries.
func (s *Store) CustomProducts() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Product, len(s.custom))
	copy(out, s.custom)
	return out
}

// Catalog returns the combined menu: built-in defaults plus custom entries.
func (s *Store) Catalog() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Product, 0, len(model.DefaultProducts)+len(s.custom))
	out = append(out, model.DefaultProducts...)
	out = append(out, s.custom...)
	return out
}

// PutProduct upserts a custom menu entry by id and persists.
func (s *Store) PutProduct(product model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	replaced := false
	for i, existing := range s.custom {
		if existing.ID == product.ID {
			s.custom[i] = product
			replaced = true
			break
		}
	}
	if !replaced {
		s.custom = append(s.custom, product)
	}
	return s.persistLocked()
}

// RemoveProduct removes a custom entry by id; absent ids are a no-op.
// Historical sales keep referencing the removed id.
func (s *Store) RemoveProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.custom[:0]
	for _, product := range s.custom {
		if product.ID != id {
			kept = append(kept, product)
		}
	}
	if len(kept) == len(s.custom) {
		return nil
	}
	s.custom = kept
	return s.persistLocked()
}

func (s *Store) Goal() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.goal
}

func (s *Store) SetGoal(goal float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goal = goal
	return s.persistLocked()
}

// Replace swaps in whole collections at once, for backup restore. Nil
// arguments leave the corresponding current state untouched.
func (s *Store) Replace(sales []model.Sale, products []model.Product, goal *float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sales != nil {
		s.sales = make(map[string]model.Sale, len(sales))
		s.order = make([]string, 0, len(sales))
		for _, sale := range sales {
			if _, seen := s.sales[sale.ID]; !seen {
				s.order = append(s.order, sale.ID)
			}
			s.sales[sale.ID] = sale
		}
	}
	if products != nil {
		s.custom = make([]model.Product, len(products))
		copy(s.custom, products)
	}
	if goal != nil {
		s.goal = *goal
	}
	return s.persistLocked()
}

// persistLocked mirrors the full in-memory state to storage. Storage is a
// plain last-write-wins mirror; there is no rollback of memory on failure.
func (s *Store) persistLocked() error {
	sales, err := json.Marshal(s.sortedSalesLocked())
	if err != nil {
		return err
	}
	products, err := json.Marshal(s.custom)
	if err != nil {
		return err
	}
	return s.snapshots.PutAll(map[string]string{
		SalesKey:    string(sales),
		ProductsKey: string(products),
		GoalKey:     strconv.FormatFloat(s.goal, 'f', -1, 64),
	})
}
