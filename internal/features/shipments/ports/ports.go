package ports

import (
	"context"

	"ocean-tracker/internal/features/shipments/domain"
)

// ShipmentRepository is the secondary port for the shipment record store.
type ShipmentRepository interface {
	// Create inserts a new shipment, assigning its ID and version.
	// A tracking number collision returns domain.ErrDuplicateTrackingNumber.
	Create(ctx context.Context, s *domain.Shipment) error
	// Update persists s only if the stored version still equals s.Version, then bumps it.
	// A mismatch returns domain.ErrConflict.
	Update(ctx context.Context, s *domain.Shipment) error
	GetByID(ctx context.Context, id string) (*domain.Shipment, error)
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Shipment, error)
	// List returns matching shipments, newest first.
	List(ctx context.Context, q domain.Query) ([]*domain.Shipment, error)
	// CountByStatus aggregates the number of shipments per status.
	CountByStatus(ctx context.Context) (map[domain.Status]int64, error)
}

// TrackingNumberGenerator issues tracking numbers for new shipments.
type TrackingNumberGenerator interface {
	Generate() (string, error)
}

// IdempotencyStore remembers which shipment a client-supplied key produced.
type IdempotencyStore interface {
	// Reserve claims key. When the key was already completed it returns the stored shipment id;
	// when it is still being processed it returns domain.ErrConflict.
	Reserve(ctx context.Context, key string) (existingID string, err error)
	// Complete records the shipment id produced under key.
	Complete(ctx context.Context, key, shipmentID string) error
	// Release frees a reserved key after a failed attempt.
	Release(ctx context.Context, key string) error
}

// EventPublisher delivers transition events to an external sink.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ShipmentEvent) error
	Close() error
}

// ShipmentService is the primary port used by the HTTP handlers.
type ShipmentService interface {
	CreateSend(ctx context.Context, actor domain.Actor, req domain.SendRequest, idempotencyKey string) (*domain.Shipment, error)
	CreateDirect(ctx context.Context, actor domain.Actor, req domain.DirectRequest) (*domain.Shipment, error)
	Transition(ctx context.Context, id string, action domain.Action, actor domain.Actor, in domain.TransitionInput) (*domain.Shipment, error)
	Track(ctx context.Context, trackingNumber string) (*domain.Shipment, error)
	Get(ctx context.Context, id string, actor domain.Actor) (*domain.Shipment, error)
	List(ctx context.Context, actor domain.Actor, view domain.View, filters domain.ListFilters) ([]*domain.Shipment, error)
	StatusCounts(ctx context.Context, actor domain.Actor) (map[domain.Status]int64, error)
}
