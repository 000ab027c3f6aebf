package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
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

// loadInquiry resolves the path ID and checks management rights through the
// property the inquiry concerns. Actors without rights get a 404 so the
// record's existence never leaks.
func loadInquiry(w http.ResponseWriter, r *http.Request, actor *models.User) (*models.Inquiry, bool) {
	idHex := mux.Vars(r)["id"]
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		http.Error(w, "Invalid inquiry ID", http.StatusBadRequest)
		return nil, false
	}

	inquiry, err := services.GetInquiry(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.Error(w, "Inquiry not found", http.StatusNotFound)
		} else {
			log.Printf("Failed to fetch inquiry %s: %v", idHex, err)
			http.Error(w, "Failed to fetch inquiry", http.StatusInternalServerError)
		}
		return nil, false
	}

	var property models.Property
	err = config.PropertyCollection.FindOne(r.Context(), bson.M{"_id": inquiry.PropertyID}).Decode(&property)
	if err != nil {
		http.Error(w, "Inquiry not found", http.StatusNotFound)
		return nil, false
	}

	if !policy.CanManageInquiry(actor, &property) {
		http.Error(w, "Inquiry not found", http.StatusNotFound)
		return nil, false
	}

	return inquiry, true
}

// CreateInquiry takes a visitor contact-form submission for a property.
// No authentication is required.
func CreateInquiry(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyIDHex := mux.Vars(r)["id"]
		propertyID, err := primitive.ObjectIDFromHex(propertyIDHex)
		if err != nil {
			http.Error(w, "Invalid property ID", http.StatusBadRequest)
			return
		}

		count, err := config.PropertyCollection.CountDocuments(r.Context(), bson.M{"_id": propertyID, "deletedAt": nil})
		if err != nil {
			log.Printf("Failed to check property %s: %v", propertyIDHex, err)
			http.Error(w, "Failed to submit inquiry", http.StatusInternalServerError)
			return
		}
		if count == 0 {
			http.Error(w, "Property not found", http.StatusNotFound)
			return
		}

		var inquiry models.Inquiry
		if err := json.NewDecoder(r.Body).Decode(&inquiry); err != nil {
			log.Printf("Invalid inquiry payload: %v", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if inquiry.Name == "" || inquiry.Email == "" || inquiry.Message == "" {
			http.Error(w, "Name, email and message are required", http.StatusBadRequest)
			return
		}

		inquiry.PropertyID = propertyID
		inquiry.Status = models.InquiryStatusNew
		inquiry.DeletedAt = nil

		err = services.CreateInquiry(r.Context(), &inquiry)
		if err != nil {
			if errors.Is(err, models.ErrInvalidEmail) {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			log.Printf("Failed to create inquiry: %v", err)
			http.Error(w, "Failed to submit inquiry", http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusCreated, models.APIResponse{
			Success: true,
			Message: "Inquiry submitted successfully",
			Data:    inquiry,
		})
	}
}

func ListInquiries(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		if actor.IsClient() {
			http.Error(w, "Only agents and admins can view inquiries", http.StatusForbidden)
			return
		}

		filters := services.InquiryFilters{Status: r.URL.Query().Get("status")}
		if raw := r.URL.Query().Get("property_id"); raw != "" {
			if id, err := primitive.ObjectIDFromHex(raw); err == nil {
				filters.PropertyID = id
			}
		}
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

		inquiries, err := services.ListInquiries(r.Context(), actor, filters)
		if err != nil {
			log.Printf("Failed to fetch inquiries: %v", err)
			http.Error(w, "Failed to fetch inquiries", http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Fetched inquiries",
			Data:    inquiries,
		})
	}
}

func UpdateInquiry(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		inquiry, ok := loadInquiry(w, r, actor)
		if !ok {
			return
		}

		var payload struct {
			Name    *string `json:"name"`
			Email   *string `json:"email"`
			Phone   *string `json:"phone"`
			Message *string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if payload.Name != nil {
			inquiry.Name = *payload.Name
		}
		if payload.Email != nil {
			inquiry.Email = *payload.Email
		}
		if payload.Phone != nil {
			inquiry.Phone = *payload.Phone
		}
		if payload.Message != nil {
			inquiry.Message = *payload.Message
		}

		if err := inquiry.ValidateEmail(); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		inquiry.UpdatedAt = time.Now()
		_, err := config.InquiryCollection.UpdateOne(r.Context(), bson.M{"_id": inquiry.ID}, bson.M{"$set": bson.M{
			"name":      inquiry.Name,
			"email":     inquiry.Email,
			"phone":     inquiry.Phone,
			"message":   inquiry.Message,
			"updatedAt": inquiry.UpdatedAt,
		}})
		if err != nil {
			log.Printf("Failed to update inquiry %s: %v", inquiry.ID.Hex(), err)
			http.Error(w, "Failed to update inquiry", http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Inquiry updated successfully",
			Data:    inquiry,
		})
	}
}

func DeleteInquiry(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		inquiry, ok := loadInquiry(w, r, actor)
		if !ok {
			return
		}

		if err := services.DeleteInquiry(r.Context(), inquiry.ID); err != nil {
			log.Printf("Failed to delete inquiry %s: %v", inquiry.ID.Hex(), err)
			http.Error(w, "Failed to delete inquiry", http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Inquiry deleted successfully",
		})
	}
}

// inquiryTransition wraps the shared load-transition-save shape of the four
// status actions. transition returns false when the state machine refuses.
func inquiryTransition(message, refusal string, transition func(*models.Inquiry, string) bool) func(*mongo.Client) http.HandlerFunc {
	return func(client *mongo.Client) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			actor, ok := currentUser(r)
			if !ok {
				http.Error(w, "User missing in context", http.StatusUnauthorized)
				return
			}

			inquiry, ok := loadInquiry(w, r, actor)
			if !ok {
				return
			}

			// The body is optional; each action names its text field the
			// way the frontend sends it.
			var payload struct {
				Notes      string `json:"notes"`
				Reason     string `json:"reason"`
				Resolution string `json:"resolution"`
			}
			_ = json.NewDecoder(r.Body).Decode(&payload)
			text := payload.Notes
			if text == "" {
				text = payload.Reason
			}
			if text == "" {
				text = payload.Resolution
			}

			if !transition(inquiry, text) {
				http.Error(w, refusal, http.StatusBadRequest)
				return
			}

			if err := services.SaveInquiry(r.Context(), inquiry); err != nil {
				log.Printf("Failed to save inquiry %s: %v", inquiry.ID.Hex(), err)
				http.Error(w, "Failed to update inquiry", http.StatusInternalServerError)
				return
			}

			respondJSON(w, http.StatusOK, models.APIResponse{
				Success: true,
				Message: message,
				Data:    inquiry,
			})
		}
	}
}

var MarkInquiryContacted = inquiryTransition(
	"Inquiry marked as contacted",
	"Closed inquiries cannot be marked as contacted",
	func(i *models.Inquiry, text string) bool { return i.MarkAsContacted(text) },
)

var MarkInquiryFollowUp = inquiryTransition(
	"Inquiry marked for follow-up",
	"Closed inquiries cannot be marked for follow-up",
	func(i *models.Inquiry, text string) bool { return i.MarkForFollowUp(text) },
)

var CloseInquiry = inquiryTransition(
	"Inquiry closed successfully",
	"Inquiry is already closed",
	func(i *models.Inquiry, text string) bool { return i.Close(text) },
)

var ReopenInquiry = inquiryTransition(
	"Inquiry reopened successfully",
	"Only closed inquiries can be reopened",
	func(i *models.Inquiry, _ string) bool { return i.Reopen() },
)

func InquiryStatistics(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		if actor.IsClient() {
			http.Error(w, "Only agents and admins can view inquiry statistics", http.StatusForbidden)
			return
		}

		stats, err := services.InquiryStatistics(r.Context(), actor)
		if err != nil {
			log.Printf("Failed to fetch inquiry statistics: %v", err)
			http.Error(w, "Failed to fetch statistics", http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Fetched inquiry statistics",
			Data:    stats,
		})
	}
}

func RecentInquiries(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		if actor.IsClient() {
			http.Error(w, "Only agents and admins can view inquiries", http.StatusForbidden)
			return
		}

		limit := 10
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 50 {
				limit = parsed
			}
		}

		inquiries, err := services.RecentInquiries(r.Context(), actor, limit)
		if err != nil {
			log.Printf("Failed to fetch recent inquiries: %v", err)
			http.Error(w, "Failed to fetch inquiries", http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Fetched recent inquiries",
			Data:    inquiries,
		})
	}
}
