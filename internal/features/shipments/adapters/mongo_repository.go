package adapters

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"ocean-tracker/internal/features/shipments/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ShipmentsCollection is the collection name used by the Mongo store.
const ShipmentsCollection = "shipments"

// MongoShipmentRepository implements ports.ShipmentRepository on a MongoDB collection.
type MongoShipmentRepository struct {
	coll *mongo.Collection
}

// NewMongoShipmentRepository wraps an existing collection handle.
func NewMongoShipmentRepository(coll *mongo.Collection) *MongoShipmentRepository {
	return &MongoShipmentRepository{coll: coll}
}

type trackingEventDocument struct {
	Status    string    `bson:"status"`
	Location  string    `bson:"location"`
	Timestamp time.Time `bson:"timestamp"`
}

type shipmentDocument struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	TrackingNumber    string             `bson:"trackingNumber"`
	Status            string             `bson:"status"`
	Origin            string             `bson:"origin"`
	Destination       string             `bson:"destination"`
	EstimatedDelivery time.Time          `bson:"estimatedDelivery"`
	Branch            string             `bson:"branch,omitempty"`

	SenderID         string `bson:"senderId,omitempty"`
	SenderName       string `bson:"senderName,omitempty"`
	RecipientID      string `bson:"recipientId,omitempty"`
	RecipientName    string `bson:"recipientName,omitempty"`
	RecipientEmail   string `bson:"recipientEmail,omitempty"`
	RecipientAddress string `bson:"recipientAddress,omitempty"`
	RecipientPhone   string `bson:"recipientPhone,omitempty"`
	DriverID         string `bson:"driverId,omitempty"`
	DriverName       string `bson:"driverName,omitempty"`

	ItemTypes []string `bson:"itemTypes"`
	Notes     string   `bson:"notes,omitempty"`

	PickupRequested   bool       `bson:"pickupRequested"`
	PickupRequestedAt *time.Time `bson:"pickupRequestedAt,omitempty"`
	PickupRequestNote string     `bson:"pickupRequestNote,omitempty"`
	PickupConfirmed   bool       `bson:"pickupConfirmed"`
	PickupConfirmedAt *time.Time `bson:"pickupConfirmedAt,omitempty"`

	HandoverRequested   bool       `bson:"handoverRequested"`
	HandoverRequestedAt *time.Time `bson:"handoverRequestedAt,omitempty"`
	HandoverNote        string     `bson:"handoverNote,omitempty"`
	HandoverConfirmed   bool       `bson:"handoverConfirmed"`
	HandoverConfirmedAt *time.Time `bson:"handoverConfirmedAt,omitempty"`
	AdminNote           string     `bson:"adminNote,omitempty"`

	DeliveredToRecipient      bool       `bson:"deliveredToRecipient"`
	DeliveredToRecipientAt    *time.Time `bson:"deliveredToRecipientAt,omitempty"`
	RecipientConfirmed        bool       `bson:"recipientConfirmed"`
	RecipientConfirmedAt      *time.Time `bson:"recipientConfirmedAt,omitempty"`
	RecipientConfirmationNote string     `bson:"recipientConfirmationNote,omitempty"`

	TrackingHistory []trackingEventDocument `bson:"trackingHistory"`

	Version   int64     `bson:"version"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// EnsureIndexes creates the unique tracking number index and the indexes behind the list views.
func (r *MongoShipmentRepository) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "trackingNumber", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_tracking_number"),
		},
		{Keys: bson.D{{Key: "senderId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "recipientId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "driverId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("failed to create shipment indexes: %w", err)
	}
	return nil
}

// Create inserts s with a fresh ObjectID and version 1.
func (r *MongoShipmentRepository) Create(ctx context.Context, s *domain.Shipment) error {
	doc := toDocument(s)
	doc.ID = primitive.NewObjectID()
	doc.Version = 1

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateTrackingNumber, s.TrackingNumber)
		}
		return fmt.Errorf("failed to insert shipment: %w", err)
	}

	s.ID = doc.ID.Hex()
	s.Version = doc.Version
	return nil
}

// Update replaces the document only if its version is unchanged since s was loaded.
func (r *MongoShipmentRepository) Update(ctx context.Context, s *domain.Shipment) error {
	oid, err := primitive.ObjectIDFromHex(s.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, s.ID)
	}

	doc := toDocument(s)
	doc.ID = oid
	doc.Version = s.Version + 1

	res, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: oid}, {Key: "version", Value: s.Version}}, doc)
	if err != nil {
		return fmt.Errorf("failed to update shipment %s: %w", s.ID, err)
	}

	if res.MatchedCount == 0 {
		n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: oid}})
		if err != nil {
			return fmt.Errorf("failed to check shipment %s: %w", s.ID, err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, s.ID)
		}
		return fmt.Errorf("%w: shipment %s was modified concurrently", domain.ErrConflict, s.ID)
	}

	s.Version = doc.Version
	return nil
}

// GetByID loads a shipment by its hex ObjectID.
func (r *MongoShipmentRepository) GetByID(ctx context.Context, id string) (*domain.Shipment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}}, id)
}

// GetByTrackingNumber loads a shipment by its public tracking number.
func (r *MongoShipmentRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Shipment, error) {
	return r.findOne(ctx, bson.D{{Key: "trackingNumber", Value: trackingNumber}}, trackingNumber)
}

func (r *MongoShipmentRepository) findOne(ctx context.Context, filter bson.D, ref string) (*domain.Shipment, error) {
	var doc shipmentDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, ref)
		}
		return nil, fmt.Errorf("failed to find shipment %s: %w", ref, err)
	}
	return fromDocument(&doc), nil
}

// List runs q as a Mongo filter sorted by creation time, newest first.
func (r *MongoShipmentRepository) List(ctx context.Context, q domain.Query) ([]*domain.Shipment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := r.coll.Find(ctx, buildFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list shipments: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]*domain.Shipment, 0)
	for cur.Next(ctx) {
		var doc shipmentDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode shipment: %w", err)
		}
		out = append(out, fromDocument(&doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shipments: %w", err)
	}
	return out, nil
}

// CountByStatus groups the collection by status.
func (r *MongoShipmentRepository) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate shipment statuses: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode status counts: %w", err)
	}

	counts := make(map[domain.Status]int64, len(rows))
	for _, row := range rows {
		counts[domain.Status(row.Status)] = row.Count
	}
	return counts, nil
}

// buildFilter mirrors domain.Query.Matches as a Mongo filter document.
func buildFilter(q domain.Query) bson.D {
	var clauses []bson.D

	if q.SentBy != "" {
		clauses = append(clauses, bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "senderId", Value: q.SentBy}},
			bson.D{{Key: "recipientId", Value: q.SentBy}, {Key: "recipientConfirmed", Value: true}},
		}}})
	}
	if q.RecipientID != "" {
		clauses = append(clauses, bson.D{{Key: "recipientId", Value: q.RecipientID}})
	}
	if q.DriverID != "" {
		clauses = append(clauses, bson.D{{Key: "driverId", Value: q.DriverID}})
	}

	var statusOps bson.D
	if len(q.StatusIn) > 0 {
		statusOps = append(statusOps, bson.E{Key: "$in", Value: statusStrings(q.StatusIn)})
	}
	if len(q.StatusNotIn) > 0 {
		statusOps = append(statusOps, bson.E{Key: "$nin", Value: statusStrings(q.StatusNotIn)})
	}
	if len(statusOps) > 0 {
		clauses = append(clauses, bson.D{{Key: "status", Value: statusOps}})
	}

	if q.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		clauses = append(clauses, bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "trackingNumber", Value: rx}},
			bson.D{{Key: "senderName", Value: rx}},
			bson.D{{Key: "recipientName", Value: rx}},
		}}})
	}

	switch len(clauses) {
	case 0:
		return bson.D{}
	case 1:
		return clauses[0]
	default:
		all := make(bson.A, len(clauses))
		for i, c := range clauses {
			all[i] = c
		}
		return bson.D{{Key: "$and", Value: all}}
	}
}

func statusStrings(statuses []domain.Status) bson.A {
	out := make(bson.A, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func toDocument(s *domain.Shipment) *shipmentDocument {
	history := make([]trackingEventDocument, len(s.TrackingHistory))
	for i, e := range s.TrackingHistory {
		history[i] = trackingEventDocument{Status: e.Status, Location: e.Location, Timestamp: e.Timestamp}
	}

	itemTypes := s.ItemTypes
	if itemTypes == nil {
		itemTypes = []string{}
	}

	return &shipmentDocument{
		TrackingNumber:            s.TrackingNumber,
		Status:                    string(s.Status),
		Origin:                    s.Origin,
		Destination:               s.Destination,
		EstimatedDelivery:         s.EstimatedDelivery,
		Branch:                    s.Branch,
		SenderID:                  s.SenderID,
		SenderName:                s.SenderName,
		RecipientID:               s.RecipientID,
		RecipientName:             s.RecipientName,
		RecipientEmail:            s.RecipientEmail,
		RecipientAddress:          s.RecipientAddress,
		RecipientPhone:            s.RecipientPhone,
		DriverID:                  s.DriverID,
		DriverName:                s.DriverName,
		ItemTypes:                 itemTypes,
		Notes:                     s.Notes,
		PickupRequested:           s.PickupRequested,
		PickupRequestedAt:         s.PickupRequestedAt,
		PickupRequestNote:         s.PickupRequestNote,
		PickupConfirmed:           s.PickupConfirmed,
		PickupConfirmedAt:         s.PickupConfirmedAt,
		HandoverRequested:         s.HandoverRequested,
		HandoverRequestedAt:       s.HandoverRequestedAt,
		HandoverNote:              s.HandoverNote,
		HandoverConfirmed:         s.HandoverConfirmed,
		HandoverConfirmedAt:       s.HandoverConfirmedAt,
		AdminNote:                 s.AdminNote,
		DeliveredToRecipient:      s.DeliveredToRecipient,
		DeliveredToRecipientAt:    s.DeliveredToRecipientAt,
		RecipientConfirmed:        s.RecipientConfirmed,
		RecipientConfirmedAt:      s.RecipientConfirmedAt,
		RecipientConfirmationNote: s.RecipientConfirmationNote,
		TrackingHistory:           history,
		Version:                   s.Version,
		CreatedAt:                 s.CreatedAt,
		UpdatedAt:                 s.UpdatedAt,
	}
}

func fromDocument(d *shipmentDocument) *domain.Shipment {
	history := make([]domain.TrackingEvent, len(d.TrackingHistory))
	for i, e := range d.TrackingHistory {
		history[i] = domain.TrackingEvent{Status: e.Status, Location: e.Location, Timestamp: e.Timestamp}
	}

	itemTypes := d.ItemTypes
	if itemTypes == nil {
		itemTypes = []string{}
	}

	return &domain.Shipment{
		ID:                        d.ID.Hex(),
		TrackingNumber:            d.TrackingNumber,
		Status:                    domain.Status(d.Status),
		Origin:                    d.Origin,
		Destination:               d.Destination,
		EstimatedDelivery:         d.EstimatedDelivery,
		Branch:                    d.Branch,
		SenderID:                  d.SenderID,
		SenderName:                d.SenderName,
		RecipientID:               d.RecipientID,
		RecipientName:             d.RecipientName,
		RecipientEmail:            d.RecipientEmail,
		RecipientAddress:          d.RecipientAddress,
		RecipientPhone:            d.RecipientPhone,
		DriverID:                  d.DriverID,
		DriverName:                d.DriverName,
		ItemTypes:                 itemTypes,
		Notes:                     d.Notes,
		PickupRequested:           d.PickupRequested,
		PickupRequestedAt:         d.PickupRequestedAt,
		PickupRequestNote:         d.PickupRequestNote,
		PickupConfirmed:           d.PickupConfirmed,
		PickupConfirmedAt:         d.PickupConfirmedAt,
		HandoverRequested:         d.HandoverRequested,
		HandoverRequestedAt:       d.HandoverRequestedAt,
		HandoverNote:              d.HandoverNote,
		HandoverConfirmed:         d.HandoverConfirmed,
		HandoverConfirmedAt:       d.HandoverConfirmedAt,
		AdminNote:                 d.AdminNote,
		DeliveredToRecipient:      d.DeliveredToRecipient,
		DeliveredToRecipientAt:    d.DeliveredToRecipientAt,
		RecipientConfirmed:        d.RecipientConfirmed,
		RecipientConfirmedAt:      d.RecipientConfirmedAt,
		RecipientConfirmationNote: d.RecipientConfirmationNote,
		TrackingHistory:           history,
		Version:                   d.Version,
		CreatedAt:                 d.CreatedAt,
		UpdatedAt:                 d.UpdatedAt,
	}
}
