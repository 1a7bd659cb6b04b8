package domain

import (
	"slices"
	"strings"
)

// View is a role-scoped list of shipments.
type View string

const (
	// ViewAdmin lists every shipment.
	ViewAdmin View = "admin"
	// ViewSent lists what the actor sent plus what they received and confirmed.
	ViewSent View = "sent"
	// ViewIncoming lists shipments on their way to the actor.
	ViewIncoming View = "incoming"
	// ViewDriver lists the active shipments assigned to the actor.
	ViewDriver View = "driver"
)

// ListFilters are the caller supplied narrowing options of a view.
type ListFilters struct {
	// Status is an exact status match (admin view).
	Status string
	// Search is a case-insensitive substring over tracking number, sender and recipient names (admin view).
	Search string
	// Statuses is an allow-list (sent view).
	Statuses []Status
}

// Query is the store-level selection a view resolves to. Empty fields do not constrain.
type Query struct {
	// SentBy matches senderId == SentBy OR (recipientId == SentBy AND recipientConfirmed).
	SentBy      string
	RecipientID string
	DriverID    string
	StatusIn    []Status
	StatusNotIn []Status
	Search      string
}

// Matches evaluates q against a shipment. Store adapters that cannot push the query down use it directly.
func (q Query) Matches(s *Shipment) bool {
	if q.SentBy != "" {
		sent := s.SenderID == q.SentBy
		received := s.RecipientID == q.SentBy && s.RecipientConfirmed
		if !sent && !received {
			return false
		}
	}
	if q.RecipientID != "" && s.RecipientID != q.RecipientID {
		return false
	}
	if q.DriverID != "" && s.DriverID != q.DriverID {
		return false
	}
	if len(q.StatusIn) > 0 && !slices.Contains(q.StatusIn, s.Status) {
		return false
	}
	if len(q.StatusNotIn) > 0 && slices.Contains(q.StatusNotIn, s.Status) {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(s.TrackingNumber), needle) &&
			!strings.Contains(strings.ToLower(s.SenderName), needle) &&
			!strings.Contains(strings.ToLower(s.RecipientName), needle) {
			return false
		}
	}
	return true
}

// ParseStatusList splits a comma separated status allow-list, skipping blanks.
func ParseStatusList(raw string) ([]Status, error) {
	var out []Status
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		st, err := ParseStatus(part)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

// CanView reports whether actor may read the shipment's detail.
func (s *Shipment) CanView(actor Actor) bool {
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleDriver:
		return s.DriverID != "" && s.DriverID == actor.DriverRef()
	default:
		return actor.ID != "" && (s.SenderID == actor.ID || s.RecipientID == actor.ID)
	}
}
