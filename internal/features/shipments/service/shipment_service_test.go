package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"ocean-tracker/internal/features/shipments/adapters"
	"ocean-tracker/internal/features/shipments/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

var (
	admin     = domain.Actor{Role: domain.RoleAdmin, ID: "a1", UserID: "ADM1", Name: "Ops"}
	sender    = domain.Actor{Role: domain.RoleUser, ID: "u-sender", UserID: "U100", Name: "Kasun Perera"}
	recipient = domain.Actor{Role: domain.RoleUser, ID: "u-recipient", UserID: "U200", Name: "Amaya Silva"}
	driver    = domain.Actor{Role: domain.RoleDriver, ID: "d-internal", UserID: "D1", Name: "Jane Doe"}
	intruder  = domain.Actor{Role: domain.RoleDriver, ID: "d-other", UserID: "D2", Name: "John Roe"}
)

// MockShipmentRepository is a mock implementation of ports.ShipmentRepository
type MockShipmentRepository struct {
	mock.Mock
}

func (m *MockShipmentRepository) Create(ctx context.Context, s *domain.Shipment) error {
	args := m.Called(ctx, s)
	if args.Error(0) == nil {
		s.ID = "ship-1"
		s.Version = 1
	}
	return args.Error(0)
}

func (m *MockShipmentRepository) Update(ctx context.Context, s *domain.Shipment) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockShipmentRepository) GetByID(ctx context.Context, id string) (*domain.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetByTrackingNumber(ctx context.Context, tn string) (*domain.Shipment, error) {
	args := m.Called(ctx, tn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) List(ctx context.Context, q domain.Query) ([]*domain.Shipment, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.Status]int64), args.Error(1)
}

// MockIdempotencyStore is a mock implementation of ports.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) Reserve(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockIdempotencyStore) Complete(ctx context.Context, key, id string) error {
	return m.Called(ctx, key, id).Error(0)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type sequenceGenerator struct {
	mu     sync.Mutex
	values []string
	next   int
	err    error
}

func (g *sequenceGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	if g.next < len(g.values) {
		v := g.values[g.next]
		g.next++
		return v, nil
	}
	g.next++
	return fmt.Sprintf("OCT%08d%s", g.next, "AAAA"), nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ShipmentEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e domain.ShipmentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) actions() []domain.Action {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Action, len(p.events))
	for i, e := range p.events {
		out[i] = e.Action
	}
	return out
}

func clock() func() time.Time {
	var mu sync.Mutex
	current := t0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Minute)
		return current
	}
}

func documents() domain.SendRequest {
	return domain.SendRequest{
		ItemTypes:        []string{"Documents"},
		RecipientID:      recipient.ID,
		RecipientName:    recipient.Name,
		RecipientAddress: "12 Galle Rd, Matara",
		Branch:           "Colombo",
	}
}

func newMemoryService(t *testing.T) (*ShipmentService, *adapters.MemoryShipmentRepository, *recordingPublisher) {
	t.Helper()
	repo := adapters.NewMemoryShipmentRepository()
	pub := &recordingPublisher{}
	svc := NewShipmentService(Options{
		Repository: repo,
		Generator:  &sequenceGenerator{},
		Publisher:  pub,
		Sink:       "test",
		Now:        clock(),
	})
	return svc, repo, pub
}

func TestShipmentService_CreateSend(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, _, pub := newMemoryService(t)

		s, err := svc.CreateSend(ctx, sender, documents(), "")
		require.NoError(t, err)

		assert.NotEmpty(t, s.ID)
		assert.Equal(t, domain.StatusPending, s.Status)
		require.Len(t, s.TrackingHistory, 1)
		assert.Equal(t, domain.EventShipmentRequested, s.TrackingHistory[0].Status)
		assert.Equal(t, "Colombo", s.TrackingHistory[0].Location)
		assert.Equal(t, []domain.Action{domain.ActionCreate}, pub.actions())
	})

	t.Run("ValidationFailureDoesNotStore", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		svc := NewShipmentService(Options{Repository: repo, Generator: &sequenceGenerator{}})

		req := documents()
		req.ItemTypes = nil
		_, err := svc.CreateSend(ctx, sender, req, "")

		assert.ErrorIs(t, err, domain.ErrValidation)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("RegeneratesAfterCollision", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		gen := &sequenceGenerator{values: []string{"OCT00000001TAKN", "OCT00000002FREE"}}
		svc := NewShipmentService(Options{Repository: repo, Generator: gen})

		repo.On("Create", ctx, mock.MatchedBy(func(s *domain.Shipment) bool { return s.TrackingNumber == "OCT00000001TAKN" })).
			Return(domain.ErrDuplicateTrackingNumber).Once()
		repo.On("Create", ctx, mock.MatchedBy(func(s *domain.Shipment) bool { return s.TrackingNumber == "OCT00000002FREE" })).
			Return(nil).Once()

		s, err := svc.CreateSend(ctx, sender, documents(), "")
		require.NoError(t, err)
		assert.Equal(t, "OCT00000002FREE", s.TrackingNumber)
		repo.AssertExpectations(t)
	})

	t.Run("GivesUpAfterRepeatedCollisions", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		svc := NewShipmentService(Options{Repository: repo, Generator: &sequenceGenerator{}})
		repo.On("Create", ctx, mock.Anything).Return(domain.ErrDuplicateTrackingNumber).Times(maxCreateAttempts)

		_, err := svc.CreateSend(ctx, sender, documents(), "")
		assert.ErrorIs(t, err, domain.ErrDuplicateTrackingNumber)
		repo.AssertExpectations(t)
	})

	t.Run("GeneratorFailure", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		svc := NewShipmentService(Options{Repository: repo, Generator: &sequenceGenerator{err: errors.New("entropy exhausted")}})

		_, err := svc.CreateSend(ctx, sender, documents(), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to generate tracking number")
	})
}

func TestShipmentService_CreateSend_Idempotency(t *testing.T) {
	ctx := context.Background()

	t.Run("FirstRequestCompletesKey", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		idem := new(MockIdempotencyStore)
		svc := NewShipmentService(Options{Repository: repo, Generator: &sequenceGenerator{}, Idempotency: idem})

		idem.On("Reserve", ctx, "u-sender:k1").Return("", nil).Once()
		repo.On("Create", ctx, mock.Anything).Return(nil).Once()
		idem.On("Complete", ctx, "u-sender:k1", "ship-1").Return(nil).Once()

		s, err := svc.CreateSend(ctx, sender, documents(), "k1")
		require.NoError(t, err)
		assert.Equal(t, "ship-1", s.ID)
		idem.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("ReplayReturnsStoredShipment", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		idem := new(MockIdempotencyStore)
		svc := NewShipmentService(Options{Repository: repo, Generator: &sequenceGenerator{}, Idempotency: idem})

		stored := &domain.Shipment{ID: "ship-7", Status: domain.StatusPending}
		idem.On("Reserve", ctx, "u-sender:k1").Return("ship-7", nil).Once()
		repo.On("GetByID", ctx, "ship-7").Return(stored, nil).Once()

		s, err := svc.CreateSend(ctx, sender, documents(), "k1")
		require.NoError(t, err)
		assert.Same(t, stored, s)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("InFlightDuplicateConflicts", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		idem := new(MockIdempotencyStore)
		svc := NewShipmentService(Options{Repository: repo, Generator: &sequenceGenerator{}, Idempotency: idem})

		idem.On("Reserve", ctx, "u-sender:k1").Return("", domain.ErrConflict).Once()

		_, err := svc.CreateSend(ctx, sender, documents(), "k1")
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("FailureReleasesKey", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		idem := new(MockIdempotencyStore)
		svc := NewShipmentService(Options{Repository: repo, Generator: &sequenceGenerator{}, Idempotency: idem})

		idem.On("Reserve", ctx, "u-sender:k2").Return("", nil).Once()
		repo.On("Create", ctx, mock.Anything).Return(errors.New("db down")).Once()
		idem.On("Release", ctx, "u-sender:k2").Return(nil).Once()

		_, err := svc.CreateSend(ctx, sender, documents(), "k2")
		require.Error(t, err)
		idem.AssertExpectations(t)
	})

	t.Run("CompleteRetriedOnce", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		idem := new(MockIdempotencyStore)
		svc := NewShipmentService(Options{Repository: repo, Generator: &sequenceGenerator{}, Idempotency: idem})

		idem.On("Reserve", ctx, "u-sender:k3").Return("", nil).Once()
		repo.On("Create", ctx, mock.Anything).Return(nil).Once()
		idem.On("Complete", ctx, "u-sender:k3", "ship-1").Return(errors.New("redis timeout")).Once()
		idem.On("Complete", ctx, "u-sender:k3", "ship-1").Return(nil).Once()

		s, err := svc.CreateSend(ctx, sender, documents(), "k3")
		require.NoError(t, err)
		assert.Equal(t, "ship-1", s.ID)
		idem.AssertNumberOfCalls(t, "Complete", 2)
		idem.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	})

	t.Run("CompleteFailureStillReturnsShipment", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		idem := new(MockIdempotencyStore)
		svc := NewShipmentService(Options{Repository: repo, Generator: &sequenceGenerator{}, Idempotency: idem})

		idem.On("Reserve", ctx, "u-sender:k4").Return("", nil).Once()
		repo.On("Create", ctx, mock.Anything).Return(nil).Once()
		idem.On("Complete", ctx, "u-sender:k4", "ship-1").Return(errors.New("redis down")).Twice()

		s, err := svc.CreateSend(ctx, sender, documents(), "k4")
		require.NoError(t, err)
		assert.Equal(t, "ship-1", s.ID)
		idem.AssertExpectations(t)
	})

	t.Run("KeyIgnoredWithoutStore", func(t *testing.T) {
		svc, _, _ := newMemoryService(t)

		first, err := svc.CreateSend(ctx, sender, documents(), "k1")
		require.NoError(t, err)
		second, err := svc.CreateSend(ctx, sender, documents(), "k1")
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})
}

func TestShipmentService_CreateDirect(t *testing.T) {
	ctx := context.Background()

	t.Run("AdminWithGeneratedNumber", func(t *testing.T) {
		svc, _, _ := newMemoryService(t)

		s, err := svc.CreateDirect(ctx, admin, domain.DirectRequest{
			Status:      domain.StatusInTransit,
			Origin:      "Colombo",
			Destination: "Jaffna",
		})
		require.NoError(t, err)
		assert.True(t, domain.IsTrackingNumber(s.TrackingNumber))
		require.Len(t, s.TrackingHistory, 1)
		assert.Equal(t, "In Transit", s.TrackingHistory[0].Status)
	})

	t.Run("AdminWithGivenNumber", func(t *testing.T) {
		svc, _, _ := newMemoryService(t)

		s, err := svc.CreateDirect(ctx, admin, domain.DirectRequest{
			TrackingNumber: "OCT99999999SEED",
			Origin:         "Colombo",
			Destination:    "Kandy",
		})
		require.NoError(t, err)
		assert.Equal(t, "OCT99999999SEED", s.TrackingNumber)

		_, err = svc.CreateDirect(ctx, admin, domain.DirectRequest{
			TrackingNumber: "OCT99999999SEED",
			Origin:         "Colombo",
			Destination:    "Kandy",
		})
		assert.ErrorIs(t, err, domain.ErrDuplicateTrackingNumber)
	})

	t.Run("NonAdminForbidden", func(t *testing.T) {
		svc, _, _ := newMemoryService(t)

		_, err := svc.CreateDirect(ctx, sender, domain.DirectRequest{Origin: "a", Destination: "b"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		svc, _, _ := newMemoryService(t)

		_, err := svc.CreateDirect(ctx, admin, domain.DirectRequest{Status: "Lost", Origin: "a", Destination: "b"})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})
}

func TestShipmentService_Transition_Workflow(t *testing.T) {
	ctx := context.Background()
	svc, repo, pub := newMemoryService(t)

	created, err := svc.CreateSend(ctx, sender, documents(), "")
	require.NoError(t, err)
	id := created.ID

	s, err := svc.Transition(ctx, id, domain.ActionAssignDriver, admin, domain.TransitionInput{DriverID: "D1", DriverName: "Jane Doe"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInTransit, s.Status)
	assert.Equal(t, "Jane Doe", s.DriverName)
	assert.Len(t, s.TrackingHistory, 2)
	assert.Equal(t, domain.EventDriverAssigned, s.TrackingHistory[1].Status)

	_, err = svc.Transition(ctx, id, domain.ActionRequestPickup, driver, domain.TransitionInput{Note: "outside gate"})
	require.NoError(t, err)
	s, err = svc.Transition(ctx, id, domain.ActionConfirmPickup, sender, domain.TransitionInput{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPickedUp, s.Status)
	assert.True(t, s.PickupConfirmed)
	assert.Equal(t, domain.EventPickupRequested, s.TrackingHistory[2].Status)
	assert.Equal(t, domain.EventPickedUp, s.TrackingHistory[3].Status)

	_, err = svc.Transition(ctx, id, domain.ActionRequestHandover, driver, domain.TransitionInput{Note: "left at hub"})
	require.NoError(t, err)
	_, err = svc.Transition(ctx, id, domain.ActionConfirmHandover, admin, domain.TransitionInput{Note: "checked"})
	require.NoError(t, err)
	_, err = svc.Transition(ctx, id, domain.ActionDeliverToRecipient, admin, domain.TransitionInput{})
	require.NoError(t, err)
	s, err = svc.Transition(ctx, id, domain.ActionConfirmDelivery, recipient, domain.TransitionInput{Note: "Received in good condition"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusDeliveryCompleted, s.Status)
	assert.True(t, s.RecipientConfirmed)
	assert.Equal(t, "Received in good condition", s.RecipientConfirmationNote)
	assert.Len(t, s.TrackingHistory, 8)
	assert.Equal(t, int64(8), s.Version)

	stored, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, s.TrackingHistory, stored.TrackingHistory)

	assert.Equal(t, []domain.Action{
		domain.ActionCreate,
		domain.ActionAssignDriver,
		domain.ActionRequestPickup,
		domain.ActionConfirmPickup,
		domain.ActionRequestHandover,
		domain.ActionConfirmHandover,
		domain.ActionDeliverToRecipient,
		domain.ActionConfirmDelivery,
	}, pub.actions())
}

func TestShipmentService_Transition_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("WrongDriverForbidden", func(t *testing.T) {
		svc, repo, _ := newMemoryService(t)
		created, err := svc.CreateSend(ctx, sender, documents(), "")
		require.NoError(t, err)
		_, err = svc.Transition(ctx, created.ID, domain.ActionAssignDriver, admin, domain.TransitionInput{DriverID: "D1"})
		require.NoError(t, err)

		_, err = svc.Transition(ctx, created.ID, domain.ActionRequestPickup, intruder, domain.TransitionInput{})
		assert.ErrorIs(t, err, domain.ErrForbidden)

		stored, _ := repo.GetByID(ctx, created.ID)
		assert.Len(t, stored.TrackingHistory, 2)
		assert.False(t, stored.PickupRequested)
	})

	t.Run("ConfirmPickupBeforeRequest", func(t *testing.T) {
		svc, repo, _ := newMemoryService(t)
		created, err := svc.CreateSend(ctx, sender, documents(), "")
		require.NoError(t, err)

		_, err = svc.Transition(ctx, created.ID, domain.ActionConfirmPickup, sender, domain.TransitionInput{})
		assert.ErrorIs(t, err, domain.ErrPreconditionFailed)

		stored, _ := repo.GetByID(ctx, created.ID)
		assert.Equal(t, int64(1), stored.Version)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc, _, _ := newMemoryService(t)

		_, err := svc.Transition(ctx, "missing", domain.ActionDeliverToRecipient, admin, domain.TransitionInput{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		svc, _, _ := newMemoryService(t)
		created, err := svc.CreateSend(ctx, sender, documents(), "")
		require.NoError(t, err)

		_, err = svc.Transition(ctx, created.ID, domain.ActionSetStatus, admin, domain.TransitionInput{Status: "Teleported"})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("ConflictIsReturnedNotRetried", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		pub := &recordingPublisher{}
		svc := NewShipmentService(Options{Repository: repo, Generator: &sequenceGenerator{}, Publisher: pub, Now: clock()})

		loaded := &domain.Shipment{
			ID:              "ship-1",
			Status:          domain.StatusPending,
			Version:         4,
			TrackingHistory: []domain.TrackingEvent{{Status: domain.EventShipmentRequested, Location: "Colombo", Timestamp: t0}},
		}
		repo.On("GetByID", ctx, "ship-1").Return(loaded, nil).Once()
		repo.On("Update", ctx, loaded).Return(domain.ErrConflict).Once()

		_, err := svc.Transition(ctx, "ship-1", domain.ActionDeliverToRecipient, admin, domain.TransitionInput{})
		assert.ErrorIs(t, err, domain.ErrConflict)
		repo.AssertExpectations(t)
		assert.Empty(t, pub.events)
	})
}

func TestShipmentService_Transition_ConcurrentWritersOneWins(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newMemoryService(t)
	created, err := svc.CreateSend(ctx, sender, documents(), "")
	require.NoError(t, err)

	const writers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	start := make(chan struct{})
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, err := svc.Transition(ctx, created.ID, domain.ActionSetStatus, admin, domain.TransitionInput{
				Status:   domain.StatusDelayed,
				Location: fmt.Sprintf("checkpoint-%d", i),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, writers, ok+conflicts)
	assert.GreaterOrEqual(t, ok, 1)
	assert.Len(t, stored.TrackingHistory, 1+ok)
	assert.Equal(t, int64(1+ok), stored.Version)
}

func TestShipmentService_PublishFailureIsNotReturned(t *testing.T) {
	ctx := context.Background()
	repo := adapters.NewMemoryShipmentRepository()
	pub := &recordingPublisher{err: errors.New("sink down")}
	svc := NewShipmentService(Options{Repository: repo, Generator: &sequenceGenerator{}, Publisher: pub, Now: clock()})

	s, err := svc.CreateSend(ctx, sender, documents(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Len(t, pub.events, 1)
}

func TestShipmentService_TrackAndGet(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newMemoryService(t)

	created, err := svc.CreateSend(ctx, sender, documents(), "")
	require.NoError(t, err)

	t.Run("TrackIsPublic", func(t *testing.T) {
		s, err := svc.Track(ctx, " "+created.TrackingNumber+" ")
		require.NoError(t, err)
		assert.Equal(t, created.ID, s.ID)
	})

	t.Run("TrackUnknown", func(t *testing.T) {
		_, err := svc.Track(ctx, "OCT00000000NONE")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("TrackBlank", func(t *testing.T) {
		_, err := svc.Track(ctx, "  ")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("GetBySenderAndRecipient", func(t *testing.T) {
		_, err := svc.Get(ctx, created.ID, sender)
		assert.NoError(t, err)
		_, err = svc.Get(ctx, created.ID, recipient)
		assert.NoError(t, err)
		_, err = svc.Get(ctx, created.ID, admin)
		assert.NoError(t, err)
	})

	t.Run("GetByUnassignedDriverForbidden", func(t *testing.T) {
		_, err := svc.Get(ctx, created.ID, driver)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestShipmentService_List(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newMemoryService(t)

	pending, err := svc.CreateSend(ctx, sender, documents(), "")
	require.NoError(t, err)

	moving, err := svc.CreateSend(ctx, sender, documents(), "")
	require.NoError(t, err)
	_, err = svc.Transition(ctx, moving.ID, domain.ActionAssignDriver, admin, domain.TransitionInput{DriverID: "D1"})
	require.NoError(t, err)

	done, err := svc.CreateSend(ctx, sender, documents(), "")
	require.NoError(t, err)
	_, err = svc.Transition(ctx, done.ID, domain.ActionDeliverToRecipient, admin, domain.TransitionInput{})
	require.NoError(t, err)
	_, err = svc.Transition(ctx, done.ID, domain.ActionConfirmDelivery, recipient, domain.TransitionInput{})
	require.NoError(t, err)

	ids := func(list []*domain.Shipment) []string {
		out := make([]string, len(list))
		for i, s := range list {
			out[i] = s.ID
		}
		return out
	}

	t.Run("AdminSeesAllNewestFirst", func(t *testing.T) {
		list, err := svc.List(ctx, admin, domain.ViewAdmin, domain.ListFilters{})
		require.NoError(t, err)
		assert.Equal(t, []string{done.ID, moving.ID, pending.ID}, ids(list))
	})

	t.Run("AdminStatusFilter", func(t *testing.T) {
		list, err := svc.List(ctx, admin, domain.ViewAdmin, domain.ListFilters{Status: "In Transit"})
		require.NoError(t, err)
		assert.Equal(t, []string{moving.ID}, ids(list))
	})

	t.Run("AdminSearchIsCaseInsensitive", func(t *testing.T) {
		list, err := svc.List(ctx, admin, domain.ViewAdmin, domain.ListFilters{Search: "amaya"})
		require.NoError(t, err)
		assert.Len(t, list, 3)
	})

	t.Run("AdminUnknownStatusMatchesNothing", func(t *testing.T) {
		list, err := svc.List(ctx, admin, domain.ViewAdmin, domain.ListFilters{Status: "Lost"})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("AdminViewForbiddenForUsers", func(t *testing.T) {
		_, err := svc.List(ctx, sender, domain.ViewAdmin, domain.ListFilters{})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("SentWithAllowList", func(t *testing.T) {
		list, err := svc.List(ctx, sender, domain.ViewSent, domain.ListFilters{Statuses: []domain.Status{domain.StatusPending}})
		require.NoError(t, err)
		assert.Equal(t, []string{pending.ID}, ids(list))
	})

	t.Run("SentIncludesConfirmedReceipts", func(t *testing.T) {
		list, err := svc.List(ctx, recipient, domain.ViewSent, domain.ListFilters{})
		require.NoError(t, err)
		assert.Equal(t, []string{done.ID}, ids(list))
	})

	t.Run("IncomingExcludesCompleted", func(t *testing.T) {
		list, err := svc.List(ctx, recipient, domain.ViewIncoming, domain.ListFilters{})
		require.NoError(t, err)
		assert.Equal(t, []string{moving.ID, pending.ID}, ids(list))
	})

	t.Run("DriverSeesActiveAssignments", func(t *testing.T) {
		list, err := svc.List(ctx, driver, domain.ViewDriver, domain.ListFilters{})
		require.NoError(t, err)
		assert.Equal(t, []string{moving.ID}, ids(list))
	})

	t.Run("DriverViewNeedsDriverRole", func(t *testing.T) {
		_, err := svc.List(ctx, sender, domain.ViewDriver, domain.ListFilters{})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("UnknownView", func(t *testing.T) {
		_, err := svc.List(ctx, admin, domain.View("archive"), domain.ListFilters{})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestShipmentService_StatusCounts(t *testing.T) {
	ctx := context.Background()

	t.Run("FillsZeroes", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		svc := NewShipmentService(Options{Repository: repo, Generator: &sequenceGenerator{}})
		repo.On("CountByStatus", ctx).Return(map[domain.Status]int64{domain.StatusPending: 3}, nil).Once()

		counts, err := svc.StatusCounts(ctx, admin)
		require.NoError(t, err)
		assert.Len(t, counts, len(domain.AllStatuses()))
		assert.Equal(t, int64(3), counts[domain.StatusPending])
		assert.Equal(t, int64(0), counts[domain.StatusCancelled])
	})

	t.Run("AdminOnly", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		svc := NewShipmentService(Options{Repository: repo, Generator: &sequenceGenerator{}})

		_, err := svc.StatusCounts(ctx, driver)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		repo.AssertNotCalled(t, "CountByStatus", mock.Anything)
	})

	t.Run("RepoError", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		svc := NewShipmentService(Options{Repository: repo, Generator: &sequenceGenerator{}})
		repo.On("CountByStatus", ctx).Return(nil, errors.New("db error")).Once()

		_, err := svc.StatusCounts(ctx, admin)
		assert.Error(t, err)
	})
}
