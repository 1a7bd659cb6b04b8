package adapters

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"ocean-tracker/internal/features/shipments/domain"

	"github.com/google/uuid"
)

// MemoryShipmentRepository is an in-process store with the same guarantees as the Mongo one:
// unique tracking numbers and versioned updates. It backs STORE_DRIVER=memory and the tests.
type MemoryShipmentRepository struct {
	mu         sync.RWMutex
	byID       map[string]*domain.Shipment
	byTracking map[string]string
}

// NewMemoryShipmentRepository creates an empty store.
func NewMemoryShipmentRepository() *MemoryShipmentRepository {
	return &MemoryShipmentRepository{
		byID:       make(map[string]*domain.Shipment),
		byTracking: make(map[string]string),
	}
}

// Create stores a copy of s and assigns its ID.
func (r *MemoryShipmentRepository) Create(_ context.Context, s *domain.Shipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byTracking[s.TrackingNumber]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateTrackingNumber, s.TrackingNumber)
	}

	s.ID = uuid.NewString()
	s.Version = 1
	r.byID[s.ID] = s.Clone()
	r.byTracking[s.TrackingNumber] = s.ID
	return nil
}

// Update replaces the stored shipment when versions match.
func (r *MemoryShipmentRepository) Update(_ context.Context, s *domain.Shipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[s.ID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, s.ID)
	}
	if stored.Version != s.Version {
		return fmt.Errorf("%w: shipment %s was modified concurrently", domain.ErrConflict, s.ID)
	}

	s.Version++
	r.byID[s.ID] = s.Clone()
	return nil
}

// GetByID returns a copy of the shipment.
func (r *MemoryShipmentRepository) GetByID(_ context.Context, id string) (*domain.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return s.Clone(), nil
}

// GetByTrackingNumber returns a copy of the shipment.
func (r *MemoryShipmentRepository) GetByTrackingNumber(_ context.Context, trackingNumber string) (*domain.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byTracking[trackingNumber]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, trackingNumber)
	}
	return r.byID[id].Clone(), nil
}

// List evaluates q against every shipment, newest first.
func (r *MemoryShipmentRepository) List(_ context.Context, q domain.Query) ([]*domain.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Shipment, 0)
	for _, s := range r.byID {
		if q.Matches(s) {
			out = append(out, s.Clone())
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].TrackingNumber > out[j].TrackingNumber
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// CountByStatus tallies shipments per status.
func (r *MemoryShipmentRepository) CountByStatus(_ context.Context) (map[domain.Status]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[domain.Status]int64)
	for _, s := range r.byID {
		counts[s.Status]++
	}
	return counts, nil
}
