package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/realty-marketplace/backend/config"
	"github.com/realty-marketplace/backend/models"
	"github.com/realty-marketplace/backend/policy"
	"github.com/realty-marketplace/backend/services"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// loadAppointment resolves the path ID and hides the record from actors who
// may not view it: they get the same 404 as a missing ID, so existence
// never leaks.
func loadAppointment(w http.ResponseWriter, r *http.Request, actor *models.User) (*models.Appointment, bool) {
	idHex := mux.Vars(r)["id"]
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		http.Error(w, "Invalid appointment ID", http.StatusBadRequest)
		return nil, false
	}

	appointment, err := services.GetAppointment(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.Error(w, "Appointment not found", http.StatusNotFound)
		} else {
			log.Printf("Failed to fetch appointment %s: %v", idHex, err)
			http.Error(w, "Failed to fetch appointment", http.StatusInternalServerError)
		}
		return nil, false
	}

	if !policy.CanViewAppointment(actor, appointment) {
		http.Error(w, "Appointment not found", http.StatusNotFound)
		return nil, false
	}

	return appointment, true
}

func parseAppointmentFilters(r *http.Request) services.AppointmentFilters {
	filters := services.AppointmentFilters{Status: r.URL.Query().Get("status")}
	if raw := r.URL.Query().Get("date_from"); raw != "" {
		if t, err := time.Parse(models.SlotDateLayout, raw); err == nil {
			filters.DateFrom = &t
		}
	}
	if raw := r.URL.Query().Get("date_to"); raw != "" {
		if t, err := time.Parse(models.SlotDateLayout, raw); err == nil {
			filters.DateTo = &t
		}
	}
	return filters
}

func ListAppointments(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		appointments, err := services.ListAppointments(r.Context(), actor, parseAppointmentFilters(r))
		if err != nil {
			log.Printf("Failed to fetch appointments: %v", err)
			http.Error(w, "Failed to fetch appointments", http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Fetched appointments",
			Data:    appointments,
		})
	}
}

func GetAppointment(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		appointment, ok := loadAppointment(w, r, actor)
		if !ok {
			return
		}

		respondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Fetched appointment",
			Data:    appointment,
		})
	}
}

func CreateAppointment(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		if !policy.CanCreateAppointment(actor) {
			http.Error(w, "Only clients can book viewings", http.StatusForbidden)
			return
		}

		var appointment models.Appointment
		if err := json.NewDecoder(r.Body).Decode(&appointment); err != nil {
			log.Printf("Invalid appointment payload: %v", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if appointment.PropertyID.IsZero() || appointment.AppointmentDate.IsZero() {
			http.Error(w, "propertyId and appointmentDate are required", http.StatusBadRequest)
			return
		}
		// Requesters book for themselves; the service derives the agent.
		appointment.UserID = actor.ID
		appointment.Status = models.AppointmentStatusPending

		err := services.CreateAppointment(r.Context(), &appointment, actor)
		switch {
		case err == nil:
		case errors.Is(err, models.ErrScheduleConflict):
			http.Error(w, err.Error(), http.StatusConflict)
			return
		case errors.Is(err, models.ErrPastAppointment):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		case errors.Is(err, mongo.ErrNoDocuments):
			http.Error(w, "Property not found", http.StatusNotFound)
			return
		default:
			log.Printf("Failed to create appointment: %v", err)
			http.Error(w, "Failed to schedule appointment", http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusCreated, models.APIResponse{
			Success: true,
			Message: "Appointment scheduled successfully",
			Data:    appointment,
		})
	}
}

func UpdateAppointment(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		appointment, ok := loadAppointment(w, r, actor)
		if !ok {
			return
		}

		if !policy.CanUpdateAppointment(actor, appointment) {
			http.Error(w, "Not allowed to update this appointment", http.StatusForbidden)
			return
		}

		var payload struct {
			AppointmentDate *time.Time `json:"appointmentDate"`
			Notes           *string    `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			log.Printf("Invalid appointment update payload: %v", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		err := services.UpdateAppointment(r.Context(), appointment, services.AppointmentUpdate{
			AppointmentDate: payload.AppointmentDate,
			Notes:           payload.Notes,
		})
		switch {
		case err == nil:
		case errors.Is(err, models.ErrScheduleConflict):
			http.Error(w, err.Error(), http.StatusConflict)
			return
		case errors.Is(err, models.ErrPastAppointment):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		default:
			log.Printf("Failed to update appointment: %v", err)
			http.Error(w, "Failed to update appointment", http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Appointment updated successfully",
			Data:    appointment,
		})
	}
}

func DeleteAppointment(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		appointment, ok := loadAppointment(w, r, actor)
		if !ok {
			return
		}

		if !policy.CanDeleteAppointment(actor, appointment) {
			http.Error(w, "Not allowed to delete this appointment", http.StatusForbidden)
			return
		}

		if err := services.DeleteAppointment(r.Context(), appointment.ID); err != nil {
			log.Printf("Failed to delete appointment %s: %v", appointment.ID.Hex(), err)
			http.Error(w, "Failed to delete appointment", http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Appointment deleted successfully",
		})
	}
}

// ConfirmAppointment moves a pending future appointment to confirmed.
// A refused transition is a 400, not an error: the caller asked for
// something the state machine forbids.
func ConfirmAppointment(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		appointment, ok := loadAppointment(w, r, actor)
		if !ok {
			return
		}

		if !policy.CanConfirmAppointment(actor, appointment) {
			http.Error(w, "Only the agent or an admin can confirm", http.StatusForbidden)
			return
		}

		if !appointment.Confirm(time.Now()) {
			http.Error(w, "Appointment cannot be confirmed in its current state", http.StatusBadRequest)
			return
		}

		if err := services.SaveAppointmentStatus(r.Context(), appointment); err != nil {
			log.Printf("Failed to save appointment %s: %v", appointment.ID.Hex(), err)
			http.Error(w, "Failed to update appointment", http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Appointment confirmed successfully",
			Data:    appointment,
		})
	}
}

func CancelAppointment(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		appointment, ok := loadAppointment(w, r, actor)
		if !ok {
			return
		}

		if !policy.CanCancelAppointment(actor, appointment) {
			http.Error(w, "Not allowed to cancel this appointment", http.StatusForbidden)
			return
		}

		var payload struct {
			Reason string `json:"reason"`
		}
		// The body is optional; an empty or absent reason is fine.
		_ = json.NewDecoder(r.Body).Decode(&payload)

		if !appointment.Cancel(payload.Reason, time.Now()) {
			http.Error(w, "Appointment cannot be cancelled in its current state", http.StatusBadRequest)
			return
		}

		if err := services.SaveAppointmentStatus(r.Context(), appointment); err != nil {
			log.Printf("Failed to save appointment %s: %v", appointment.ID.Hex(), err)
			http.Error(w, "Failed to update appointment", http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Appointment cancelled successfully",
			Data:    appointment,
		})
	}
}

func CompleteAppointment(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		appointment, ok := loadAppointment(w, r, actor)
		if !ok {
			return
		}

		if !policy.CanCompleteAppointment(actor, appointment) {
			http.Error(w, "Only the agent or an admin can complete", http.StatusForbidden)
			return
		}

		if !appointment.Complete(time.Now()) {
			http.Error(w, "Only past confirmed appointments can be completed", http.StatusBadRequest)
			return
		}

		if err := services.SaveAppointmentStatus(r.Context(), appointment); err != nil {
			log.Printf("Failed to save appointment %s: %v", appointment.ID.Hex(), err)
			http.Error(w, "Failed to update appointment", http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Appointment completed successfully",
			Data:    appointment,
		})
	}
}

func AvailableSlots(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agentIDHex := r.URL.Query().Get("agent_id")
		agentID, err := primitive.ObjectIDFromHex(agentIDHex)
		if err != nil {
			http.Error(w, "Valid agent_id is required", http.StatusBadRequest)
			return
		}

		date, err := time.ParseInLocation(models.SlotDateLayout, r.URL.Query().Get("date"), time.Local)
		if err != nil {
			http.Error(w, "Valid date is required (YYYY-MM-DD)", http.StatusBadRequest)
			return
		}

		count, err := config.UserCollection.CountDocuments(r.Context(), bson.M{"_id": agentID, "role": models.RoleAgent})
		if err != nil {
			log.Printf("Failed to check agent %s: %v", agentIDHex, err)
			http.Error(w, "Failed to fetch available slots", http.StatusInternalServerError)
			return
		}
		if count == 0 {
			http.Error(w, "Agent not found", http.StatusNotFound)
			return
		}

		slots, err := services.AvailableSlots(r.Context(), agentID, date)
		if err != nil {
			log.Printf("Failed to fetch slots for agent %s: %v", agentIDHex, err)
			http.Error(w, "Failed to fetch available slots", http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Fetched available slots",
			Data:    slots,
		})
	}
}

func AppointmentStatistics(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		stats, err := services.AppointmentStatistics(r.Context(), actor)
		if err != nil {
			log.Printf("Failed to fetch appointment statistics: %v", err)
			http.Error(w, "Failed to fetch statistics", http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Fetched appointment statistics",
			Data:    stats,
		})
	}
}
