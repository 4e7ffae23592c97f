package collection

import (
	"sync"
	"time"

	"github.com/collectorking/collectorking/pkg/errors"
)

// MemoryStore is an in-memory Store for tests and temporary operations.
// It is the base the file-backed store builds on.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	index   map[Key]int

	policy QuantityPolicy
	now    func() time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithQuantityPolicy sets the quantity handling for repeated imports of the
// same key.
func WithQuantityPolicy(policy QuantityPolicy) MemoryOption {
	return func(s *MemoryStore) {
		s.policy = policy
	}
}

// WithClock overrides the time source used for LastUpdated stamps.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		index:  make(map[Key]int),
		policy: QuantityReplace,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the store's quantity policy.
func (s *MemoryStore) Policy() QuantityPolicy {
	return s.policy
}

// Upsert implements Store.
func (s *MemoryStore) Upsert(rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertLocked(rec)
	return nil
}

func (s *MemoryStore) upsertLocked(rec Record) {
	rec.LastUpdated = s.now()
	if rec.Quantity == 0 {
		rec.Quantity = 1
	}

	if i, ok := s.index[rec.Key()]; ok {
		if s.policy == QuantityAccumulate {
			rec.Quantity += s.records[i].Quantity
		}
		s.records[i] = rec
		return
	}

	s.index[rec.Key()] = len(s.records)
	s.records = append(s.records, rec)
}

// Record implements Store.
func (s *MemoryStore) Record(key Key) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[key]
	if !ok {
		return Record{}, &errors.RecordError{Key: key.String()}
	}
	return s.records[i], nil
}

// SetQuantity implements Store.
func (s *MemoryStore) SetQuantity(key Key, quantity int) error {
	if quantity < 0 {
		return &errors.ValidationError{Field: "quantity", Value: quantity, Message: "cannot be negative"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[key]
	if !ok {
		return &errors.RecordError{Key: key.String()}
	}
	s.records[i].Quantity = quantity
	s.records[i].LastUpdated = s.now()
	return nil
}

// UpdatePrice implements Store.
func (s *MemoryStore) UpdatePrice(key Key, price float64, newRarity string) error {
	if price < 0 {
		return &errors.ValidationError{Field: "price", Value: price, Message: "cannot be negative"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[key]
	if !ok {
		return &errors.RecordError{Key: key.String()}
	}

	if newRarity != "" && newRarity != key.Rarity {
		target := Key{SetCode: key.SetCode, Rarity: newRarity}
		if j, exists := s.index[target]; exists && j != i {
			// The target key already holds a record. Merge the two so
			// one key never maps to two records, with the same quantity
			// handling as a repeated Upsert of that key.
			if s.policy == QuantityAccumulate {
				s.records[j].Quantity += s.records[i].Quantity
			} else {
				s.records[j].Quantity = s.records[i].Quantity
			}
			s.records[j].Price = price
			s.records[j].LastUpdated = s.now()
			s.removeLocked(i)
			return nil
		}
		delete(s.index, key)
		s.records[i].Rarity = newRarity
		s.index[s.records[i].Key()] = i
	}

	s.records[i].Price = price
	s.records[i].LastUpdated = s.now()
	return nil
}

// removeLocked drops the i-th record and reindexes everything behind it.
func (s *MemoryStore) removeLocked(i int) {
	delete(s.index, s.records[i].Key())
	s.records = append(s.records[:i], s.records[i+1:]...)
	for j := i; j < len(s.records); j++ {
		s.index[s.records[j].Key()] = j
	}
}

// List implements Store. The returned slice is a copy in insertion order.
func (s *MemoryStore) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// TotalValue implements Store.
func (s *MemoryStore) TotalValue() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, r := range s.records {
		total += r.LineTotal()
	}
	return total
}

// Len implements Store.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// replaceAll swaps in a fully loaded record set. Used by the file store's
// Load; keys are rebuilt from scratch.
func (s *MemoryStore) replaceAll(records []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = records
	s.index = make(map[Key]int, len(records))
	for i, r := range records {
		s.index[r.Key()] = i
	}
}
