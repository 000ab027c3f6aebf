package services

import (
	"context"
	"time"

	"github.com/realty-marketplace/backend/config"
	"github.com/realty-marketplace/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var activeAppointmentStatuses = bson.A{
	models.AppointmentStatusPending,
	models.AppointmentStatusConfirmed,
}

// HasConflict reports whether another active appointment already holds the
// exact timestamp for the agent. Granularity is exact-timestamp equality;
// the slot generator only hands out half-hour boundaries, so that suffices.
func HasConflict(ctx context.Context, agentID primitive.ObjectID, date time.Time, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"agentId":         agentID,
		"appointmentDate": date,
		"status":          bson.M{"$in": activeAppointmentStatuses},
	}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}

	count, err := config.AppointmentCollection.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateAppointment books a viewing. The requester becomes the appointment
// user unless one was supplied, and the agent defaults to the property's
// owning agent. Conflicting or past-dated bookings are rejected with a
// domain error; the unique partial index on (agentId, appointmentDate)
// catches the race two concurrent requests could otherwise win together.
func CreateAppointment(ctx context.Context, appointment *models.Appointment, actor *models.User) error {
	if appointment.UserID.IsZero() {
		appointment.UserID = actor.ID
	}
	if appointment.Status == "" {
		appointment.Status = models.AppointmentStatusPending
	}

	if appointment.AgentID.IsZero() {
		var property models.Property
		err := config.PropertyCollection.FindOne(ctx, bson.M{"_id": appointment.PropertyID, "deletedAt": nil}).Decode(&property)
		if err != nil {
			return err
		}
		appointment.AgentID = property.AgentID
	}

	now := time.Now()
	if err := appointment.ValidateDate(now); err != nil {
		return err
	}

	conflict, err := HasConflict(ctx, appointment.AgentID, appointment.AppointmentDate, primitive.NilObjectID)
	if err != nil {
		return err
	}
	if conflict {
		return models.ErrScheduleConflict
	}

	appointment.ID = primitive.NewObjectID()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	_, err = config.AppointmentCollection.InsertOne(ctx, appointment)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrScheduleConflict
	}
	return err
}

type AppointmentUpdate struct {
	AppointmentDate *time.Time
	AgentID         *primitive.ObjectID
	Notes           *string
}

// UpdateAppointment reschedules or annotates an appointment. The conflict
// check reruns whenever the date or agent changes, excluding the
// appointment itself.
func UpdateAppointment(ctx context.Context, appointment *models.Appointment, update AppointmentUpdate) error {
	date := appointment.AppointmentDate
	agentID := appointment.AgentID
	if update.AppointmentDate != nil {
		date = *update.AppointmentDate
	}
	if update.AgentID != nil {
		agentID = *update.AgentID
	}

	if !date.Equal(appointment.AppointmentDate) || agentID != appointment.AgentID {
		conflict, err := HasConflict(ctx, agentID, date, appointment.ID)
		if err != nil {
			return err
		}
		if conflict {
			return models.ErrScheduleConflict
		}
	}

	appointment.AppointmentDate = date
	appointment.AgentID = agentID
	if update.Notes != nil {
		appointment.Notes = *update.Notes
	}

	now := time.Now()
	if err := appointment.ValidateDate(now); err != nil {
		return err
	}
	appointment.UpdatedAt = now

	_, err := config.AppointmentCollection.ReplaceOne(ctx, bson.M{"_id": appointment.ID}, appointment)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrScheduleConflict
	}
	return err
}

// SaveAppointmentStatus persists the result of a state transition.
func SaveAppointmentStatus(ctx context.Context, appointment *models.Appointment) error {
	appointment.UpdatedAt = time.Now()
	_, err := config.AppointmentCollection.UpdateOne(ctx, bson.M{"_id": appointment.ID}, bson.M{"$set": bson.M{
		"status":    appointment.Status,
		"notes":     appointment.Notes,
		"updatedAt": appointment.UpdatedAt,
	}})
	return err
}

func GetAppointment(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	var appointment models.Appointment
	err := config.AppointmentCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&appointment)
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func DeleteAppointment(ctx context.Context, id primitive.ObjectID) error {
	_, err := config.AppointmentCollection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// AvailableSlots lists the open half-hour viewing slots for an agent on a
// given day. Booked and already-elapsed slots are omitted.
func AvailableSlots(ctx context.Context, agentID primitive.ObjectID, date time.Time) ([]models.Slot, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	cursor, err := config.AppointmentCollection.Find(ctx, bson.M{
		"agentId":         agentID,
		"appointmentDate": bson.M{"$gte": dayStart, "$lt": dayEnd},
		"status":          bson.M{"$in": activeAppointmentStatuses},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var appointments []models.Appointment
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, err
	}

	booked := make(map[int64]bool, len(appointments))
	for _, appt := range appointments {
		booked[appt.AppointmentDate.Unix()] = true
	}

	return models.GenerateSlots(date, time.Now(), func(t time.Time) bool {
		return booked[t.Unix()]
	}), nil
}

type AppointmentFilters struct {
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
}

// ListAppointments returns the appointments visible to the actor: all of
// them for admins, their bookings for agents, their requests for everyone
// else. Newest first.
func ListAppointments(ctx context.Context, actor *models.User, filters AppointmentFilters) ([]models.Appointment, error) {
	filter := bson.M{}
	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleAgent:
		filter["agentId"] = actor.ID
	default:
		filter["userId"] = actor.ID
	}

	if filters.Status != "" {
		filter["status"] = filters.Status
	}
	dateRange := bson.M{}
	if filters.DateFrom != nil {
		dateRange["$gte"] = *filters.DateFrom
	}
	if filters.DateTo != nil {
		dateRange["$lte"] = *filters.DateTo
	}
	if len(dateRange) > 0 {
		filter["appointmentDate"] = dateRange
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := config.AppointmentCollection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	appointments := []models.Appointment{}
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

type AppointmentStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Cancelled int64 `json:"cancelled"`
	Completed int64 `json:"completed"`
	Upcoming  int64 `json:"upcoming"`
}

// AppointmentStatistics aggregates per-status counts scoped to the actor's
// role, matching the listing scope of ListAppointments.
func AppointmentStatistics(ctx context.Context, actor *models.User) (*AppointmentStats, error) {
	scope := bson.M{}
	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleAgent:
		scope["agentId"] = actor.ID
	default:
		scope["userId"] = actor.ID
	}

	countWith := func(extra bson.M) (int64, error) {
		filter := bson.M{}
		for k, v := range scope {
			filter[k] = v
		}
		for k, v := range extra {
			filter[k] = v
		}
		return config.AppointmentCollection.CountDocuments(ctx, filter)
	}

	stats := &AppointmentStats{}
	var err error
	if stats.Total, err = countWith(bson.M{}); err != nil {
		return nil, err
	}
	if stats.Pending, err = countWith(bson.M{"status": models.AppointmentStatusPending}); err != nil {
		return nil, err
	}
	if stats.Confirmed, err = countWith(bson.M{"status": models.AppointmentStatusConfirmed}); err != nil {
		return nil, err
	}
	if stats.Cancelled, err = countWith(bson.M{"status": models.AppointmentStatusCancelled}); err != nil {
		return nil, err
	}
	if stats.Completed, err = countWith(bson.M{"status": models.AppointmentStatusCompleted}); err != nil {
		return nil, err
	}
	stats.Upcoming, err = countWith(bson.M{
		"appointmentDate": bson.M{"$gt": time.Now()},
		"status":          bson.M{"$in": activeAppointmentStatuses},
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
