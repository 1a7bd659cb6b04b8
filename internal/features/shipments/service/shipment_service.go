package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ocean-tracker/internal/core/logger"
	"ocean-tracker/internal/core/metrics"
	"ocean-tracker/internal/features/shipments/domain"
	"ocean-tracker/internal/features/shipments/ports"

	"go.uber.org/zap"
)

// maxCreateAttempts bounds tracking number regeneration after a collision.
const maxCreateAttempts = 3

const completeAttempts = 2

// Options wires a ShipmentService. Repository and Generator are required.
type Options struct {
	Repository ports.ShipmentRepository
	Generator  ports.TrackingNumberGenerator
	// Idempotency is optional; without it Idempotency-Key headers are ignored.
	Idempotency ports.IdempotencyStore
	// Publisher is optional; events are dropped when nil.
	Publisher ports.EventPublisher
	// Sink labels publish failures in metrics, e.g. "kafka".
	Sink string
	// Now defaults to time.Now in UTC.
	Now func() time.Time
}

// ShipmentService implements ports.ShipmentService.
type ShipmentService struct {
	repo        ports.ShipmentRepository
	generator   ports.TrackingNumberGenerator
	idempotency ports.IdempotencyStore
	publisher   ports.EventPublisher
	sink        string
	now         func() time.Time
}

// NewShipmentService creates a new instance of ShipmentService.
func NewShipmentService(opts Options) *ShipmentService {
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	sink := opts.Sink
	if sink == "" {
		sink = "none"
	}
	return &ShipmentService{
		repo:        opts.Repository,
		generator:   opts.Generator,
		idempotency: opts.Idempotency,
		publisher:   opts.Publisher,
		sink:        sink,
		now:         now,
	}
}

// CreateSend registers a shipment submitted by a sender. A repeated idempotency key
// returns the shipment created by the first request.
func (s *ShipmentService) CreateSend(ctx context.Context, actor domain.Actor, req domain.SendRequest, idempotencyKey string) (*domain.Shipment, error) {
	key := strings.TrimSpace(idempotencyKey)
	if key != "" && s.idempotency != nil {
		existingID, err := s.idempotency.Reserve(ctx, scopedKey(actor, key))
		if err != nil {
			return nil, err
		}
		if existingID != "" {
			logger.Get().Info("Replaying idempotent shipment request",
				zap.String("shipment_id", existingID),
				zap.String("sender_id", actor.ID),
			)
			return s.repo.GetByID(ctx, existingID)
		}
	} else {
		key = ""
	}

	shipment, err := s.createWithFreshNumber(ctx, func(tn string) (*domain.Shipment, error) {
		return domain.NewSendShipment(actor, req, tn, s.now())
	})
	if err != nil {
		if key != "" {
			if relErr := s.idempotency.Release(ctx, scopedKey(actor, key)); relErr != nil {
				logger.Get().Warn("Failed to release idempotency key", zap.Error(relErr))
			}
		}
		return nil, err
	}

	if key != "" {
		s.completeKey(ctx, scopedKey(actor, key), shipment.ID)
	}

	metrics.ShipmentsCreatedTotal.WithLabelValues("send").Inc()
	logger.Get().Info("Shipment created",
		zap.String("shipment_id", shipment.ID),
		zap.String("tracking_number", shipment.TrackingNumber),
		zap.String("sender_id", actor.ID),
	)
	s.publish(ctx, shipment, domain.ActionCreate, actor)
	return shipment, nil
}

// completeKey records shipmentID under key, trying once more on failure.
func (s *ShipmentService) completeKey(ctx context.Context, key, shipmentID string) {
	var err error
	for attempt := 1; attempt <= completeAttempts; attempt++ {
		if err = s.idempotency.Complete(ctx, key, shipmentID); err == nil {
			return
		}
		logger.Get().Warn("Failed to complete idempotency key",
			zap.String("shipment_id", shipmentID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	logger.Get().Error("Idempotency key left pending",
		zap.String("shipment_id", shipmentID),
		zap.Error(err),
	)
}

// CreateDirect inserts a shipment exactly as an admin describes it.
// A missing tracking number is generated.
func (s *ShipmentService) CreateDirect(ctx context.Context, actor domain.Actor, req domain.DirectRequest) (*domain.Shipment, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can create shipments directly", domain.ErrForbidden)
	}

	var (
		shipment *domain.Shipment
		err      error
	)
	if req.TrackingNumber != "" {
		shipment, err = domain.NewDirectShipment(req, s.now())
		if err == nil {
			err = s.repo.Create(ctx, shipment)
		}
	} else {
		shipment, err = s.createWithFreshNumber(ctx, func(tn string) (*domain.Shipment, error) {
			r := req
			r.TrackingNumber = tn
			return domain.NewDirectShipment(r, s.now())
		})
	}
	if err != nil {
		return nil, err
	}

	metrics.ShipmentsCreatedTotal.WithLabelValues("admin").Inc()
	logger.Get().Info("Shipment created by admin",
		zap.String("shipment_id", shipment.ID),
		zap.String("tracking_number", shipment.TrackingNumber),
		zap.String("status", shipment.Status.String()),
	)
	s.publish(ctx, shipment, domain.ActionCreate, actor)
	return shipment, nil
}

func (s *ShipmentService) createWithFreshNumber(ctx context.Context, build func(trackingNumber string) (*domain.Shipment, error)) (*domain.Shipment, error) {
	var lastErr error
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		tn, err := s.generator.Generate()
		if err != nil {
			return nil, fmt.Errorf("failed to generate tracking number: %w", err)
		}

		shipment, err := build(tn)
		if err != nil {
			return nil, err
		}

		err = s.repo.Create(ctx, shipment)
		if err == nil {
			return shipment, nil
		}
		if !errors.Is(err, domain.ErrDuplicateTrackingNumber) {
			return nil, err
		}

		logger.Get().Warn("Tracking number collision, regenerating",
			zap.String("tracking_number", tn),
			zap.Int("attempt", attempt),
		)
		lastErr = err
	}
	return nil, lastErr
}

// Transition loads the shipment, applies action for actor and saves it with a version check.
// Nothing is written when the action is rejected.
func (s *ShipmentService) Transition(ctx context.Context, id string, action domain.Action, actor domain.Actor, in domain.TransitionInput) (*domain.Shipment, error) {
	shipment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.recordRejection(action, err)
		return nil, err
	}

	if err := shipment.Apply(action, actor, in, s.now()); err != nil {
		s.recordRejection(action, err)
		logger.Get().Info("Shipment transition rejected",
			zap.String("shipment_id", id),
			zap.String("action", string(action)),
			zap.String("actor_role", string(actor.Role)),
			zap.Error(err),
		)
		return nil, err
	}

	if err := s.repo.Update(ctx, shipment); err != nil {
		s.recordRejection(action, err)
		if errors.Is(err, domain.ErrConflict) {
			logger.Get().Warn("Concurrent shipment update detected",
				zap.String("shipment_id", id),
				zap.String("action", string(action)),
			)
		}
		return nil, err
	}

	metrics.TransitionsTotal.WithLabelValues(string(action)).Inc()
	logger.Get().Info("Shipment transitioned",
		zap.String("shipment_id", shipment.ID),
		zap.String("tracking_number", shipment.TrackingNumber),
		zap.String("action", string(action)),
		zap.String("status", shipment.Status.String()),
		zap.Int64("version", shipment.Version),
	)
	s.publish(ctx, shipment, action, actor)
	return shipment, nil
}

// Track returns a shipment by tracking number without authentication.
func (s *ShipmentService) Track(ctx context.Context, trackingNumber string) (*domain.Shipment, error) {
	tn := strings.ToUpper(strings.TrimSpace(trackingNumber))
	if tn == "" {
		return nil, fmt.Errorf("%w: tracking number is required", domain.ErrValidation)
	}
	return s.repo.GetByTrackingNumber(ctx, tn)
}

// Get returns a shipment the actor is allowed to see.
func (s *ShipmentService) Get(ctx context.Context, id string, actor domain.Actor) (*domain.Shipment, error) {
	shipment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !shipment.CanView(actor) {
		return nil, fmt.Errorf("%w: shipment %s", domain.ErrForbidden, id)
	}
	return shipment, nil
}

// List resolves view for actor into a store query.
func (s *ShipmentService) List(ctx context.Context, actor domain.Actor, view domain.View, filters domain.ListFilters) ([]*domain.Shipment, error) {
	q, err := queryFor(actor, view, filters)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, q)
}

func queryFor(actor domain.Actor, view domain.View, filters domain.ListFilters) (domain.Query, error) {
	switch view {
	case domain.ViewAdmin:
		if !actor.IsAdmin() {
			return domain.Query{}, fmt.Errorf("%w: admin view", domain.ErrForbidden)
		}
		q := domain.Query{Search: strings.TrimSpace(filters.Search)}
		// exact match; an unknown status simply matches nothing
		if raw := strings.TrimSpace(filters.Status); raw != "" {
			q.StatusIn = []domain.Status{domain.Status(raw)}
		}
		return q, nil

	case domain.ViewSent:
		if actor.ID == "" {
			return domain.Query{}, fmt.Errorf("%w: sent view needs an account id", domain.ErrForbidden)
		}
		return domain.Query{SentBy: actor.ID, StatusIn: filters.Statuses}, nil

	case domain.ViewIncoming:
		if actor.ID == "" {
			return domain.Query{}, fmt.Errorf("%w: incoming view needs an account id", domain.ErrForbidden)
		}
		return domain.Query{
			RecipientID: actor.ID,
			StatusNotIn: []domain.Status{domain.StatusDeliveryCompleted},
		}, nil

	case domain.ViewDriver:
		if actor.Role != domain.RoleDriver {
			return domain.Query{}, fmt.Errorf("%w: driver view", domain.ErrForbidden)
		}
		return domain.Query{
			DriverID: actor.DriverRef(),
			StatusIn: []domain.Status{domain.StatusInTransit, domain.StatusPickedUp},
		}, nil

	default:
		return domain.Query{}, fmt.Errorf("%w: unknown view %q", domain.ErrValidation, view)
	}
}

// StatusCounts returns the number of shipments per status, including zeroes.
func (s *ShipmentService) StatusCounts(ctx context.Context, actor domain.Actor) (map[domain.Status]int64, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: status counts", domain.ErrForbidden)
	}

	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count shipments: %w", err)
	}

	out := make(map[domain.Status]int64, len(domain.AllStatuses()))
	for _, st := range domain.AllStatuses() {
		out[st] = counts[st]
	}
	return out, nil
}

func (s *ShipmentService) publish(ctx context.Context, shipment *domain.Shipment, action domain.Action, actor domain.Actor) {
	if s.publisher == nil {
		return
	}

	event := domain.NewShipmentEvent(shipment, action, actor)
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		metrics.EventPublishFailuresTotal.WithLabelValues(s.sink).Inc()
		logger.Get().Error("Failed to publish shipment event",
			zap.String("shipment_id", shipment.ID),
			zap.String("action", string(action)),
			zap.String("sink", s.sink),
			zap.Error(err),
		)
	}
}

func (s *ShipmentService) recordRejection(action domain.Action, err error) {
	metrics.TransitionErrorsTotal.WithLabelValues(string(action), reason(err)).Inc()
}

func reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrPreconditionFailed):
		return "precondition"
	case errors.Is(err, domain.ErrInvalidStatus):
		return "invalid_status"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}

// scopedKey keeps two senders from colliding on the same client-chosen key.
func scopedKey(actor domain.Actor, key string) string {
	return actor.ID + ":" + key
}
