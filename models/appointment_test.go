package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func futureAppointment(status string) *Appointment {
	return &Appointment{
		Status:          status,
		AppointmentDate: testNow.Add(24 * time.Hour),
		Notes:           "Bring ID",
	}
}

func pastAppointment(status string) *Appointment {
	return &Appointment{
		Status:          status,
		AppointmentDate: testNow.Add(-24 * time.Hour),
	}
}

func TestAppointmentConfirm(t *testing.T) {
	tests := []struct {
		name        string
		appointment *Appointment
		want        bool
		wantStatus  string
	}{
		{"pending future", futureAppointment(AppointmentStatusPending), true, AppointmentStatusConfirmed},
		{"already confirmed", futureAppointment(AppointmentStatusConfirmed), false, AppointmentStatusConfirmed},
		{"cancelled", futureAppointment(AppointmentStatusCancelled), false, AppointmentStatusCancelled},
		{"completed", futureAppointment(AppointmentStatusCompleted), false, AppointmentStatusCompleted},
		{"pending but past", pastAppointment(AppointmentStatusPending), false, AppointmentStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appointment.Confirm(testNow)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantStatus, tt.appointment.Status)
		})
	}
}

func TestAppointmentConfirmNotIdempotent(t *testing.T) {
	appt := futureAppointment(AppointmentStatusPending)
	require.True(t, appt.Confirm(testNow))
	assert.False(t, appt.Confirm(testNow), "second confirm must fail")
}

func TestAppointmentCancel(t *testing.T) {
	tests := []struct {
		name        string
		appointment *Appointment
		want        bool
	}{
		{"pending future", futureAppointment(AppointmentStatusPending), true},
		{"confirmed future", futureAppointment(AppointmentStatusConfirmed), true},
		{"already cancelled", futureAppointment(AppointmentStatusCancelled), false},
		{"completed", futureAppointment(AppointmentStatusCompleted), false},
		{"pending but past", pastAppointment(AppointmentStatusPending), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appointment.Cancel("", testNow)
			assert.Equal(t, tt.want, got)
			if tt.want {
				assert.Equal(t, AppointmentStatusCancelled, tt.appointment.Status)
			}
		})
	}
}

func TestAppointmentCancelAppendsReason(t *testing.T) {
	appt := futureAppointment(AppointmentStatusConfirmed)
	require.True(t, appt.Cancel("client unavailable", testNow))
	assert.Equal(t, "Bring ID\n\nCancelled: client unavailable", appt.Notes)

	empty := futureAppointment(AppointmentStatusPending)
	empty.Notes = ""
	require.True(t, empty.Cancel("double booked", testNow))
	assert.Equal(t, "Cancelled: double booked", empty.Notes)
}

func TestAppointmentCancelWithoutReasonKeepsNotes(t *testing.T) {
	appt := futureAppointment(AppointmentStatusPending)
	require.True(t, appt.Cancel("", testNow))
	assert.Equal(t, "Bring ID", appt.Notes)
}

func TestAppointmentComplete(t *testing.T) {
	tests := []struct {
		name        string
		appointment *Appointment
		want        bool
	}{
		{"confirmed past", pastAppointment(AppointmentStatusConfirmed), true},
		{"pending past", pastAppointment(AppointmentStatusPending), false},
		{"confirmed future", futureAppointment(AppointmentStatusConfirmed), false},
		{"cancelled past", pastAppointment(AppointmentStatusCancelled), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appointment.Complete(testNow)
			assert.Equal(t, tt.want, got)
			if tt.want {
				assert.Equal(t, AppointmentStatusCompleted, tt.appointment.Status)
			}
		})
	}
}

func TestAppointmentValidateDate(t *testing.T) {
	assert.NoError(t, futureAppointment(AppointmentStatusPending).ValidateDate(testNow))
	assert.ErrorIs(t, pastAppointment(AppointmentStatusPending).ValidateDate(testNow), ErrPastAppointment)
	assert.ErrorIs(t, pastAppointment(AppointmentStatusConfirmed).ValidateDate(testNow), ErrPastAppointment)

	// Backfilled history may carry past dates.
	assert.NoError(t, pastAppointment(AppointmentStatusCompleted).ValidateDate(testNow))
	assert.NoError(t, pastAppointment(AppointmentStatusCancelled).ValidateDate(testNow))
}

func TestGenerateSlotsFullDay(t *testing.T) {
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	now := day.Add(-12 * time.Hour)

	slots := GenerateSlots(day, now, nil)

	// 09:00 through 17:30 inclusive, every 30 minutes.
	require.Len(t, slots, 18)
	assert.Equal(t, "09:00", slots[0].Time)
	assert.Equal(t, "17:30", slots[len(slots)-1].Time)
	for i, slot := range slots {
		assert.True(t, slot.Available)
		if i > 0 {
			assert.Equal(t, SlotInterval, slot.DateTime.Sub(slots[i-1].DateTime))
		}
	}
}

func TestGenerateSlotsFiltersBooked(t *testing.T) {
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	now := day.Add(-12 * time.Hour)
	taken := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	slots := GenerateSlots(day, now, func(t time.Time) bool {
		return t.Equal(taken)
	})

	require.Len(t, slots, 17)
	for _, slot := range slots {
		assert.False(t, slot.DateTime.Equal(taken), "booked slot must not be emitted")
	}
}

func TestGenerateSlotsFiltersPast(t *testing.T) {
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 2, 13, 15, 0, 0, time.UTC)

	slots := GenerateSlots(day, now, nil)

	require.NotEmpty(t, slots)
	assert.Equal(t, "13:30", slots[0].Time)
	for _, slot := range slots {
		assert.True(t, slot.DateTime.After(now))
	}
}

func TestGenerateSlotsEmptyWhenDayOver(t *testing.T) {
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)

	assert.Empty(t, GenerateSlots(day, now, nil))
}
