package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AppointmentStatusPending   = "pending"
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusCancelled = "cancelled"
	AppointmentStatusCompleted = "completed"
)

// Viewing slots run 09:00 to 18:00 (exclusive) in 30-minute steps.
const (
	SlotStartHour  = 9
	SlotEndHour    = 18
	SlotInterval   = 30 * time.Minute
	SlotTimeLayout = "15:04"
	SlotDateLayout = "2006-01-02"
)

type Appointment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	PropertyID      primitive.ObjectID `bson:"propertyId" json:"propertyId"`
	AgentID         primitive.ObjectID `bson:"agentId" json:"agentId"`
	AppointmentDate time.Time          `bson:"appointmentDate" json:"appointmentDate"`
	Status          string             `bson:"status" json:"status"`
	Notes           string             `bson:"notes" json:"notes"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsUpcoming reports whether the appointment is still pending or confirmed
// and lies in the future.
func (a *Appointment) IsUpcoming(now time.Time) bool {
	return a.AppointmentDate.After(now) &&
		(a.Status == AppointmentStatusPending || a.Status == AppointmentStatusConfirmed)
}

func (a *Appointment) IsPast(now time.Time) bool {
	return a.AppointmentDate.Before(now)
}

func (a *Appointment) CanBeConfirmed(now time.Time) bool {
	return a.Status == AppointmentStatusPending && a.IsUpcoming(now)
}

func (a *Appointment) CanBeCancelled(now time.Time) bool {
	return a.IsUpcoming(now)
}

// Confirm moves a pending future appointment to confirmed. Returns false
// without mutating when the transition is illegal.
func (a *Appointment) Confirm(now time.Time) bool {
	if !a.CanBeConfirmed(now) {
		return false
	}
	a.Status = AppointmentStatusConfirmed
	return true
}

// Cancel aborts a pending or confirmed future appointment. A non-empty
// reason is appended to the notes, never overwriting what is there.
func (a *Appointment) Cancel(reason string, now time.Time) bool {
	if !a.CanBeCancelled(now) {
		return false
	}
	a.Status = AppointmentStatusCancelled
	if reason != "" {
		if a.Notes != "" {
			a.Notes = a.Notes + "\n\nCancelled: " + reason
		} else {
			a.Notes = "Cancelled: " + reason
		}
	}
	return true
}

// Complete marks a confirmed appointment whose date has passed as completed.
// Completion is an explicit action; past appointments never auto-complete.
func (a *Appointment) Complete(now time.Time) bool {
	if !a.IsPast(now) || a.Status != AppointmentStatusConfirmed {
		return false
	}
	a.Status = AppointmentStatusCompleted
	return true
}

// ValidateDate is the persistence-time guard: an active appointment must be
// dated in the future. Completed and cancelled appointments may carry past
// dates so historical data can be backfilled.
func (a *Appointment) ValidateDate(now time.Time) error {
	if a.AppointmentDate.Before(now) &&
		a.Status != AppointmentStatusCompleted && a.Status != AppointmentStatusCancelled {
		return ErrPastAppointment
	}
	return nil
}

type Slot struct {
	Time      string    `json:"time"`
	DateTime  time.Time `json:"datetime"`
	Available bool      `json:"available"`
}

// GenerateSlots produces the available viewing slots for a day. booked
// reports whether an active appointment already holds the exact timestamp.
// Slots in the past or already booked are filtered out, not flagged.
func GenerateSlots(date time.Time, now time.Time, booked func(time.Time) bool) []Slot {
	start := time.Date(date.Year(), date.Month(), date.Day(), SlotStartHour, 0, 0, 0, date.Location())
	end := time.Date(date.Year(), date.Month(), date.Day(), SlotEndHour, 0, 0, 0, date.Location())

	slots := []Slot{}
	for t := start; t.Before(end); t = t.Add(SlotInterval) {
		if booked != nil && booked(t) {
			continue
		}
		if !t.After(now) {
			continue
		}
		slots = append(slots, Slot{
			Time:      t.Format(SlotTimeLayout),
			DateTime:  t,
			Available: true,
		})
	}
	return slots
}
