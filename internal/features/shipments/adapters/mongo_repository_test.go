package adapters

import (
	"context"
	"testing"
	"time"

	"ocean-tracker/internal/features/shipments/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func asBSON(t testing.TB, v any) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	var d bson.D
	require.NoError(t, bson.Unmarshal(raw, &d))
	return d
}

func storedDocument(t testing.TB, id primitive.ObjectID, tn string, status domain.Status) bson.D {
	created := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	s := &domain.Shipment{
		TrackingNumber: tn,
		Status:         status,
		Origin:         "Colombo",
		Destination:    "Matara",
		SenderID:       "u-sender",
		SenderName:     "Nimal",
		ItemTypes:      []string{"Documents"},
		TrackingHistory: []domain.TrackingEvent{
			{Status: domain.EventShipmentRequested, Location: "Colombo", Timestamp: created},
		},
		Version:   3,
		CreatedAt: created,
		UpdatedAt: created,
	}
	doc := toDocument(s)
	doc.ID = id
	return asBSON(t, doc)
}

func TestMongoShipmentRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Success", func(mt *mtest.T) {
		repo := NewMongoShipmentRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		s := &domain.Shipment{TrackingNumber: "OCT12345678ABCD", Status: domain.StatusPending}
		require.NoError(t, repo.Create(context.Background(), s))

		assert.Len(t, s.ID, 24)
		assert.Equal(t, int64(1), s.Version)
	})

	mt.Run("DuplicateTrackingNumber", func(mt *mtest.T) {
		repo := NewMongoShipmentRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: oceantracker.shipments index: uniq_tracking_number",
		}))

		s := &domain.Shipment{TrackingNumber: "OCT12345678ABCD"}
		err := repo.Create(context.Background(), s)

		assert.ErrorIs(t, err, domain.ErrDuplicateTrackingNumber)
		assert.Empty(t, s.ID)
	})
}

func TestMongoShipmentRepository_GetByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Found", func(mt *mtest.T) {
		repo := NewMongoShipmentRepository(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			storedDocument(t, id, "OCT00000001AAAA", domain.StatusInTransit)))

		s, err := repo.GetByID(context.Background(), id.Hex())
		require.NoError(t, err)

		assert.Equal(t, id.Hex(), s.ID)
		assert.Equal(t, "OCT00000001AAAA", s.TrackingNumber)
		assert.Equal(t, domain.StatusInTransit, s.Status)
		assert.Equal(t, int64(3), s.Version)
		require.Len(t, s.TrackingHistory, 1)
		assert.Equal(t, domain.EventShipmentRequested, s.TrackingHistory[0].Status)
	})

	mt.Run("Missing", func(mt *mtest.T) {
		repo := NewMongoShipmentRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	mt.Run("MalformedID", func(mt *mtest.T) {
		repo := NewMongoShipmentRepository(mt.Coll)

		_, err := repo.GetByID(context.Background(), "not-an-object-id")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMongoShipmentRepository_GetByTrackingNumber(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Found", func(mt *mtest.T) {
		repo := NewMongoShipmentRepository(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			storedDocument(t, id, "OCT00000002BBBB", domain.StatusPending)))

		s, err := repo.GetByTrackingNumber(context.Background(), "OCT00000002BBBB")
		require.NoError(t, err)
		assert.Equal(t, id.Hex(), s.ID)
	})

	mt.Run("Missing", func(mt *mtest.T) {
		repo := NewMongoShipmentRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := repo.GetByTrackingNumber(context.Background(), "OCT00000000ZZZZ")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMongoShipmentRepository_Update(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Success", func(mt *mtest.T) {
		repo := NewMongoShipmentRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		s := &domain.Shipment{ID: primitive.NewObjectID().Hex(), Version: 2}
		require.NoError(t, repo.Update(context.Background(), s))
		assert.Equal(t, int64(3), s.Version)
	})

	mt.Run("Conflict", func(mt *mtest.T) {
		repo := NewMongoShipmentRepository(mt.Coll)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{{Key: "_id", Value: 1}, {Key: "n", Value: 1}}),
		)

		s := &domain.Shipment{ID: primitive.NewObjectID().Hex(), Version: 2}
		err := repo.Update(context.Background(), s)

		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Equal(t, int64(2), s.Version)
	})

	mt.Run("Missing", func(mt *mtest.T) {
		repo := NewMongoShipmentRepository(mt.Coll)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch),
		)

		err := repo.Update(context.Background(), &domain.Shipment{ID: primitive.NewObjectID().Hex(), Version: 1})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMongoShipmentRepository_List(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("DecodesBatch", func(mt *mtest.T) {
		repo := NewMongoShipmentRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			storedDocument(t, primitive.NewObjectID(), "OCT00000003CCCC", domain.StatusInTransit),
			storedDocument(t, primitive.NewObjectID(), "OCT00000004DDDD", domain.StatusPickedUp),
		))

		out, err := repo.List(context.Background(), domain.Query{DriverID: "D1"})
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "OCT00000003CCCC", out[0].TrackingNumber)
		assert.Equal(t, domain.StatusPickedUp, out[1].Status)
	})

	mt.Run("Empty", func(mt *mtest.T) {
		repo := NewMongoShipmentRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		out, err := repo.List(context.Background(), domain.Query{})
		require.NoError(t, err)
		assert.NotNil(t, out)
		assert.Empty(t, out)
	})
}

func TestMongoShipmentRepository_CountByStatus(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Groups", func(mt *mtest.T) {
		repo := NewMongoShipmentRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "Pending"}, {Key: "count", Value: int32(4)}},
			bson.D{{Key: "_id", Value: "In Transit"}, {Key: "count", Value: int32(2)}},
		))

		counts, err := repo.CountByStatus(context.Background())
		require.NoError(t, err)
		assert.Equal(t, map[domain.Status]int64{
			domain.StatusPending:   4,
			domain.StatusInTransit: 2,
		}, counts)
	})
}

func TestMongoShipmentRepository_EnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Success", func(mt *mtest.T) {
		repo := NewMongoShipmentRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		assert.NoError(t, repo.EnsureIndexes(context.Background()))
	})
}

func TestBuildFilter(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, bson.D{}, buildFilter(domain.Query{}))
	})

	t.Run("SingleClause", func(t *testing.T) {
		got := buildFilter(domain.Query{DriverID: "D1"})
		assert.Equal(t, bson.D{{Key: "driverId", Value: "D1"}}, got)
	})

	t.Run("StatusInAndNotInShareOneField", func(t *testing.T) {
		got := buildFilter(domain.Query{
			StatusIn:    []domain.Status{domain.StatusInTransit},
			StatusNotIn: []domain.Status{domain.StatusDeliveryCompleted},
		})
		assert.Equal(t, bson.D{{Key: "status", Value: bson.D{
			{Key: "$in", Value: bson.A{"In Transit"}},
			{Key: "$nin", Value: bson.A{"Delivery Completed"}},
		}}}, got)
	})

	t.Run("SentByAndSearchAreAnded", func(t *testing.T) {
		got := buildFilter(domain.Query{SentBy: "u1", Search: "oct.1"})
		require.Len(t, got, 1)
		assert.Equal(t, "$and", got[0].Key)

		clauses := got[0].Value.(bson.A)
		require.Len(t, clauses, 2)

		search := clauses[1].(bson.D)
		ors := search[0].Value.(bson.A)
		rx := ors[0].(bson.D)[0].Value.(primitive.Regex)
		assert.Equal(t, `oct\.1`, rx.Pattern)
		assert.Equal(t, "i", rx.Options)
	})
}

func TestDocumentMapping_PreservesWorkflowState(t *testing.T) {
	now := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	s := &domain.Shipment{
		ID:                  primitive.NewObjectID().Hex(),
		TrackingNumber:      "OCT00000005EEEE",
		Status:              domain.StatusHandoverRequested,
		DriverID:            "D1",
		HandoverRequested:   true,
		HandoverRequestedAt: &now,
		HandoverNote:        "at depot",
		ItemTypes:           nil,
		Version:             5,
	}

	doc := toDocument(s)
	oid, err := primitive.ObjectIDFromHex(s.ID)
	require.NoError(t, err)
	doc.ID = oid

	back := fromDocument(doc)
	assert.Equal(t, s.ID, back.ID)
	assert.True(t, back.HandoverRequested)
	assert.Equal(t, now, *back.HandoverRequestedAt)
	assert.Equal(t, "at depot", back.HandoverNote)
	assert.Equal(t, []string{}, back.ItemTypes)
	assert.Equal(t, int64(5), back.Version)
}
