package domain

import (
	"fmt"
	"strings"
	"time"
)

// Action names a workflow step of the transition engine.
type Action string

const (
	ActionAssignDriver       Action = "assign-driver"
	ActionSetStatus          Action = "set-status"
	ActionRequestPickup      Action = "request-pickup"
	ActionConfirmPickup      Action = "confirm-pickup"
	ActionRequestHandover    Action = "request-handover"
	ActionConfirmHandover    Action = "confirm-handover"
	ActionDeliverToRecipient Action = "deliver-to-recipient"
	ActionConfirmDelivery    Action = "confirm-delivery"
)

// TransitionInput carries the optional payload of an action. Fields an action does not use are ignored.
type TransitionInput struct {
	// Status is the target of ActionSetStatus.
	Status Status
	// Location overrides the event location; each action has its own fallback.
	Location   string
	DriverID   string
	DriverName string
	// Note is the driver, admin or recipient remark attached to the step.
	Note string
	// Notes replaces the shipment notes when set (ActionSetStatus only).
	Notes *string
}

// Apply checks the actor and the workflow preconditions of action and, only when both pass,
// mutates the shipment and appends exactly one tracking event.
func (s *Shipment) Apply(action Action, actor Actor, in TransitionInput, now time.Time) error {
	switch action {
	case ActionAssignDriver:
		return s.assignDriver(actor, in, now)
	case ActionSetStatus:
		return s.setStatus(actor, in, now)
	case ActionRequestPickup:
		return s.requestPickup(actor, in, now)
	case ActionConfirmPickup:
		return s.confirmPickup(actor, in, now)
	case ActionRequestHandover:
		return s.requestHandover(actor, in, now)
	case ActionConfirmHandover:
		return s.confirmHandover(actor, in, now)
	case ActionDeliverToRecipient:
		return s.deliverToRecipient(actor, in, now)
	case ActionConfirmDelivery:
		return s.confirmDelivery(actor, in, now)
	default:
		return fmt.Errorf("%w: unknown action %q", ErrValidation, action)
	}
}

func (s *Shipment) assignDriver(actor Actor, in TransitionInput, now time.Time) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: only admins can assign drivers", ErrForbidden)
	}
	driverID := strings.TrimSpace(in.DriverID)
	if driverID == "" {
		return fmt.Errorf("%w: driverId is required", ErrValidation)
	}
	if s.Status != StatusPending && s.Status != StatusInTransit {
		return fmt.Errorf("%w: cannot assign a driver while %s", ErrPreconditionFailed, s.Status)
	}

	s.DriverID = driverID
	s.DriverName = strings.TrimSpace(in.DriverName)
	s.Status = StatusInTransit
	s.appendEvent(EventDriverAssigned, pick(in.Location, s.LastLocation()), now)
	return nil
}

// setStatus accepts any enumerated status regardless of the current one.
func (s *Shipment) setStatus(actor Actor, in TransitionInput, now time.Time) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: only admins can set status", ErrForbidden)
	}
	if !in.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, string(in.Status))
	}

	if driverID := strings.TrimSpace(in.DriverID); driverID != "" {
		s.DriverID = driverID
		if name := strings.TrimSpace(in.DriverName); name != "" {
			s.DriverName = name
		}
	}
	if in.Notes != nil {
		s.Notes = *in.Notes
	}
	s.Status = in.Status
	s.appendEvent(string(in.Status), pick(in.Location, s.LastLocation()), now)
	return nil
}

func (s *Shipment) requestPickup(actor Actor, in TransitionInput, now time.Time) error {
	if err := s.ensureAssignedDriver(actor); err != nil {
		return err
	}

	s.Status = StatusPickupRequested
	s.PickupRequested = true
	s.PickupRequestedAt = &now
	s.PickupRequestNote = in.Note
	s.PickupConfirmed = false
	s.PickupConfirmedAt = nil
	s.appendEvent(EventPickupRequested, pick(in.Location, s.Origin), now)
	return nil
}

func (s *Shipment) confirmPickup(actor Actor, in TransitionInput, now time.Time) error {
	if s.SenderID == "" || s.SenderID != actor.ID {
		return fmt.Errorf("%w: only the sender can confirm pickup", ErrForbidden)
	}
	if !s.PickupRequested {
		return fmt.Errorf("%w: pickup has not been requested", ErrPreconditionFailed)
	}
	if s.PickupConfirmed {
		return fmt.Errorf("%w: pickup already confirmed", ErrPreconditionFailed)
	}

	s.Status = StatusPickedUp
	s.PickupConfirmed = true
	s.PickupConfirmedAt = &now
	s.appendEvent(EventPickedUp, pick(in.Location, s.Origin), now)
	return nil
}

func (s *Shipment) requestHandover(actor Actor, in TransitionInput, now time.Time) error {
	if err := s.ensureAssignedDriver(actor); err != nil {
		return err
	}

	s.Status = StatusHandoverRequested
	s.HandoverRequested = true
	s.HandoverRequestedAt = &now
	s.HandoverNote = in.Note
	// a new request opens a new confirmation round
	s.HandoverConfirmed = false
	s.HandoverConfirmedAt = nil
	s.appendEvent(EventHandoverRequested, pick(in.Location, s.LastLocation()), now)
	return nil
}

func (s *Shipment) confirmHandover(actor Actor, in TransitionInput, now time.Time) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: only admins can confirm handovers", ErrForbidden)
	}
	if !s.HandoverRequested {
		return fmt.Errorf("%w: handover has not been requested", ErrPreconditionFailed)
	}
	if s.HandoverConfirmed {
		return fmt.Errorf("%w: handover already confirmed", ErrPreconditionFailed)
	}

	s.Status = StatusInTransit
	s.HandoverConfirmed = true
	s.HandoverConfirmedAt = &now
	s.AdminNote = in.Note
	s.appendEvent(EventHandoverConfirmed, pick(in.Location, s.LastLocation()), now)
	return nil
}

func (s *Shipment) deliverToRecipient(actor Actor, in TransitionInput, now time.Time) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: only admins can mark deliveries", ErrForbidden)
	}

	s.Status = StatusDeliveredToRecipient
	s.DeliveredToRecipient = true
	s.DeliveredToRecipientAt = &now
	s.appendEvent(EventDeliveredToRecipient, pick(in.Location, s.Destination, s.LastLocation()), now)
	return nil
}

func (s *Shipment) confirmDelivery(actor Actor, in TransitionInput, now time.Time) error {
	if s.RecipientID == "" || s.RecipientID != actor.ID {
		return fmt.Errorf("%w: only the recipient can confirm delivery", ErrForbidden)
	}
	if !s.DeliveredToRecipient {
		return fmt.Errorf("%w: shipment has not been delivered yet", ErrPreconditionFailed)
	}
	if s.RecipientConfirmed {
		return fmt.Errorf("%w: delivery already confirmed", ErrPreconditionFailed)
	}

	s.Status = StatusDeliveryCompleted
	s.RecipientConfirmed = true
	s.RecipientConfirmedAt = &now
	s.RecipientConfirmationNote = in.Note
	s.appendEvent(EventDeliveryCompleted, pick(in.Location, s.Destination, s.LastLocation()), now)
	return nil
}

func (s *Shipment) ensureAssignedDriver(actor Actor) error {
	if actor.Role != RoleDriver {
		return fmt.Errorf("%w: driver role required", ErrForbidden)
	}
	if s.DriverID == "" || s.DriverID != actor.DriverRef() {
		return fmt.Errorf("%w: shipment is not assigned to this driver", ErrForbidden)
	}
	return nil
}

// pick returns the first non-blank value.
func pick(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
