package domain

import "fmt"

// Status is the lifecycle state of a shipment. Only the constants below are valid.
type Status string

const (
	StatusPending              Status = "Pending"
	StatusPickupRequested      Status = "Pickup Requested"
	StatusPickedUp             Status = "Picked Up"
	StatusInTransit            Status = "In Transit"
	StatusHandoverRequested    Status = "Handover Requested"
	StatusDelayed              Status = "Delayed"
	StatusDelivered            Status = "Delivered"
	StatusDeliveredToRecipient Status = "Delivered To Recipient"
	StatusDeliveryCompleted    Status = "Delivery Completed"
	StatusCancelled            Status = "Cancelled"
)

var allStatuses = []Status{
	StatusPending,
	StatusPickupRequested,
	StatusPickedUp,
	StatusInTransit,
	StatusHandoverRequested,
	StatusDelayed,
	StatusDelivered,
	StatusDeliveredToRecipient,
	StatusDeliveryCompleted,
	StatusCancelled,
}

// AllStatuses returns every valid status in workflow order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus converts raw input into a Status, rejecting anything outside the enumeration.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// IsValid reports whether s is one of the enumerated statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPickupRequested, StatusPickedUp, StatusInTransit,
		StatusHandoverRequested, StatusDelayed, StatusDelivered,
		StatusDeliveredToRecipient, StatusDeliveryCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further workflow step is expected.
func (s Status) IsTerminal() bool {
	return s == StatusDeliveryCompleted || s == StatusCancelled
}

func (s Status) String() string {
	return string(s)
}
