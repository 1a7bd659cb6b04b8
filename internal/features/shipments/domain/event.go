package domain

import "time"

// ShipmentEvent is published after a shipment is created or transitioned.
type ShipmentEvent struct {
	ShipmentID     string        `json:"shipmentId"`
	TrackingNumber string        `json:"trackingNumber"`
	Action         Action        `json:"action"`
	Status         Status        `json:"status"`
	ActorRole      Role          `json:"actorRole"`
	ActorID        string        `json:"actorId"`
	Entry          TrackingEvent `json:"entry"`
	Version        int64         `json:"version"`
	OccurredAt     time.Time     `json:"occurredAt"`
}

// ActionCreate marks the event emitted when a shipment is first stored.
const ActionCreate Action = "create"

// NewShipmentEvent describes the latest change of s made by actor.
func NewShipmentEvent(s *Shipment, action Action, actor Actor) ShipmentEvent {
	e := ShipmentEvent{
		ShipmentID:     s.ID,
		TrackingNumber: s.TrackingNumber,
		Action:         action,
		Status:         s.Status,
		ActorRole:      actor.Role,
		ActorID:        actor.ID,
		Version:        s.Version,
		OccurredAt:     s.UpdatedAt,
	}
	if n := len(s.TrackingHistory); n > 0 {
		e.Entry = s.TrackingHistory[n-1]
	}
	return e
}
