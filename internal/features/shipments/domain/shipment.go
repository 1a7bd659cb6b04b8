package domain

import (
	"fmt"
	"strings"
	"time"
)

// EstimatedDeliveryWindow is added to the creation time of sender-initiated shipments.
const EstimatedDeliveryWindow = 3 * 24 * time.Hour

// Event names recorded in the tracking history for workflow steps.
const (
	EventShipmentRequested    = "Shipment Requested"
	EventDriverAssigned       = "Driver Assigned"
	EventPickupRequested      = "Pickup Requested"
	EventPickedUp             = "Picked Up"
	EventHandoverRequested    = "Handover Requested"
	EventHandoverConfirmed    = "Handover Confirmed"
	EventDeliveredToRecipient = "Delivered To Recipient"
	EventDeliveryCompleted    = "Delivery Completed"
)

// TrackingEvent is one entry of the append-only audit trail.
type TrackingEvent struct {
	// Status is the event name; for admin status changes it is the new status.
	Status    string    `json:"status"`
	Location  string    `json:"location"`
	Timestamp time.Time `json:"timestamp"`
}

// Shipment is a parcel moving from a sender to a recipient.
type Shipment struct {
	ID                string    `json:"_id"`
	TrackingNumber    string    `json:"trackingNumber"`
	Status            Status    `json:"status"`
	Origin            string    `json:"origin"`
	Destination       string    `json:"destination"`
	EstimatedDelivery time.Time `json:"estimatedDelivery"`
	Branch            string    `json:"branch,omitempty"`

	SenderID         string `json:"senderId,omitempty"`
	SenderName       string `json:"senderName,omitempty"`
	RecipientID      string `json:"recipientId,omitempty"`
	RecipientName    string `json:"recipientName,omitempty"`
	RecipientEmail   string `json:"recipientEmail,omitempty"`
	RecipientAddress string `json:"recipientAddress,omitempty"`
	RecipientPhone   string `json:"recipientPhone,omitempty"`
	DriverID         string `json:"driverId,omitempty"`
	DriverName       string `json:"driverName,omitempty"`

	ItemTypes []string `json:"itemTypes"`
	Notes     string   `json:"notes,omitempty"`

	PickupRequested   bool       `json:"pickupRequested"`
	PickupRequestedAt *time.Time `json:"pickupRequestedAt,omitempty"`
	PickupRequestNote string     `json:"pickupRequestNote,omitempty"`
	PickupConfirmed   bool       `json:"pickupConfirmed"`
	PickupConfirmedAt *time.Time `json:"pickupConfirmedAt,omitempty"`

	HandoverRequested   bool       `json:"handoverRequested"`
	HandoverRequestedAt *time.Time `json:"handoverRequestedAt,omitempty"`
	HandoverNote        string     `json:"handoverNote,omitempty"`
	HandoverConfirmed   bool       `json:"handoverConfirmed"`
	HandoverConfirmedAt *time.Time `json:"handoverConfirmedAt,omitempty"`
	AdminNote           string     `json:"adminNote,omitempty"`

	DeliveredToRecipient      bool       `json:"deliveredToRecipient"`
	DeliveredToRecipientAt    *time.Time `json:"deliveredToRecipientAt,omitempty"`
	RecipientConfirmed        bool       `json:"recipientConfirmed"`
	RecipientConfirmedAt      *time.Time `json:"recipientConfirmedAt,omitempty"`
	RecipientConfirmationNote string     `json:"recipientConfirmationNote,omitempty"`

	TrackingHistory []TrackingEvent `json:"trackingHistory"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SendRequest is what a sender submits from the shipment wizard.
type SendRequest struct {
	ItemTypes        []string
	RecipientID      string
	RecipientName    string
	RecipientEmail   string
	RecipientAddress string
	RecipientPhone   string
	Branch           string
	Notes            string
}

// NewSendShipment builds a Pending shipment seeded with its first tracking event.
func NewSendShipment(sender Actor, req SendRequest, trackingNumber string, now time.Time) (*Shipment, error) {
	items := normalizeTags(req.ItemTypes)
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: at least one item type is required", ErrValidation)
	}
	if strings.TrimSpace(req.RecipientID) == "" {
		return nil, fmt.Errorf("%w: recipient is required", ErrValidation)
	}
	branch := strings.TrimSpace(req.Branch)
	if branch == "" {
		return nil, fmt.Errorf("%w: branch is required", ErrValidation)
	}
	if sender.ID == "" {
		return nil, fmt.Errorf("%w: sender is required", ErrValidation)
	}

	s := &Shipment{
		TrackingNumber:    trackingNumber,
		Status:            StatusPending,
		Origin:            branch,
		Destination:       strings.TrimSpace(req.RecipientAddress),
		EstimatedDelivery: now.Add(EstimatedDeliveryWindow),
		Branch:            branch,
		SenderID:          sender.ID,
		SenderName:        sender.Name,
		RecipientID:       strings.TrimSpace(req.RecipientID),
		RecipientName:     strings.TrimSpace(req.RecipientName),
		RecipientEmail:    strings.TrimSpace(req.RecipientEmail),
		RecipientAddress:  strings.TrimSpace(req.RecipientAddress),
		RecipientPhone:    strings.TrimSpace(req.RecipientPhone),
		ItemTypes:         items,
		Notes:             req.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	s.appendEvent(EventShipmentRequested, branch, now)
	return s, nil
}

// DirectRequest is the admin insert path used for seeding and corrections.
type DirectRequest struct {
	TrackingNumber    string
	Status            Status
	Origin            string
	Destination       string
	EstimatedDelivery time.Time
	SenderID          string
	SenderName        string
	RecipientID       string
	RecipientName     string
	RecipientEmail    string
	DriverID          string
	DriverName        string
	ItemTypes         []string
	Notes             string
}

// NewDirectShipment builds a shipment exactly as an admin describes it.
func NewDirectShipment(req DirectRequest, now time.Time) (*Shipment, error) {
	status := req.Status
	if status == "" {
		status = StatusPending
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, string(status))
	}
	if strings.TrimSpace(req.Origin) == "" || strings.TrimSpace(req.Destination) == "" {
		return nil, fmt.Errorf("%w: origin and destination are required", ErrValidation)
	}
	if req.TrackingNumber == "" {
		return nil, fmt.Errorf("%w: tracking number is required", ErrValidation)
	}

	eta := req.EstimatedDelivery
	if eta.IsZero() {
		eta = now.Add(EstimatedDeliveryWindow)
	}

	s := &Shipment{
		TrackingNumber:    req.TrackingNumber,
		Status:            status,
		Origin:            strings.TrimSpace(req.Origin),
		Destination:       strings.TrimSpace(req.Destination),
		EstimatedDelivery: eta,
		SenderID:          req.SenderID,
		SenderName:        req.SenderName,
		RecipientID:       req.RecipientID,
		RecipientName:     req.RecipientName,
		RecipientEmail:    req.RecipientEmail,
		DriverID:          req.DriverID,
		DriverName:        req.DriverName,
		ItemTypes:         normalizeTags(req.ItemTypes),
		Notes:             req.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	s.appendEvent(string(status), s.Origin, now)
	return s, nil
}

// LastLocation returns the location of the latest tracking event.
func (s *Shipment) LastLocation() string {
	if len(s.TrackingHistory) == 0 {
		return s.Origin
	}
	return s.TrackingHistory[len(s.TrackingHistory)-1].Location
}

// Clone returns a deep copy so stores never share mutable state with callers.
func (s *Shipment) Clone() *Shipment {
	if s == nil {
		return nil
	}
	c := *s
	c.ItemTypes = append([]string(nil), s.ItemTypes...)
	c.TrackingHistory = append([]TrackingEvent(nil), s.TrackingHistory...)
	c.PickupRequestedAt = cloneTime(s.PickupRequestedAt)
	c.PickupConfirmedAt = cloneTime(s.PickupConfirmedAt)
	c.HandoverRequestedAt = cloneTime(s.HandoverRequestedAt)
	c.HandoverConfirmedAt = cloneTime(s.HandoverConfirmedAt)
	c.DeliveredToRecipientAt = cloneTime(s.DeliveredToRecipientAt)
	c.RecipientConfirmedAt = cloneTime(s.RecipientConfirmedAt)
	return &c
}

func (s *Shipment) appendEvent(name, location string, at time.Time) {
	s.TrackingHistory = append(s.TrackingHistory, TrackingEvent{
		Status:    name,
		Location:  location,
		Timestamp: at,
	})
	s.UpdatedAt = at
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// normalizeTags trims, drops empties and removes duplicates while keeping the first occurrence order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
