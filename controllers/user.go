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
	"github.com/realty-marketplace/backend/utils"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func stripPasswords(users []models.User) {
	for i := range users {
		users[i].Password = ""
	}
}

func ListUsers(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		if !policy.CanListUsers(actor) {
			http.Error(w, "Admin access required", http.StatusForbidden)
			return
		}

		filter := bson.M{}
		if role := r.URL.Query().Get("role"); role != "" {
			filter["role"] = role
		}

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := config.UserCollection.Find(r.Context(), filter, findOptions)
		if err != nil {
			log.Printf("Failed to fetch users: %v", err)
			http.Error(w, "Failed to fetch users", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		users := []models.User{}
		if err := cursor.All(r.Context(), &users); err != nil {
			log.Printf("Failed to decode users: %v", err)
			http.Error(w, "Failed to decode users", http.StatusInternalServerError)
			return
		}
		stripPasswords(users)

		respondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Fetched users",
			Data:    users,
		})
	}
}

// ListAgents is the public-facing agent directory; only active agents show.
func ListAgents(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cursor, err := config.UserCollection.Find(r.Context(), bson.M{
			"role":     models.RoleAgent,
			"isActive": true,
		})
		if err != nil {
			log.Printf("Failed to fetch agents: %v", err)
			http.Error(w, "Failed to fetch agents", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		agents := []models.User{}
		if err := cursor.All(r.Context(), &agents); err != nil {
			log.Printf("Failed to decode agents: %v", err)
			http.Error(w, "Failed to decode agents", http.StatusInternalServerError)
			return
		}
		stripPasswords(agents)

		respondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Fetched agents",
			Data:    agents,
		})
	}
}

func GetUser(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		idHex := mux.Vars(r)["id"]
		id, err := primitive.ObjectIDFromHex(idHex)
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}

		var user models.User
		err = config.UserCollection.FindOne(r.Context(), bson.M{"_id": id}).Decode(&user)
		if err != nil {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}

		if !policy.CanViewUser(actor, &user) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}

		user.Password = ""
		respondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Fetched user",
			Data:    user,
		})
	}
}

func UpdateUserRole(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		if !policy.CanUpdateRole(actor) {
			http.Error(w, "Admin access required", http.StatusForbidden)
			return
		}

		idHex := mux.Vars(r)["id"]
		id, err := primitive.ObjectIDFromHex(idHex)
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}

		var payload struct {
			Role string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		switch payload.Role {
		case models.RoleAdmin, models.RoleAgent, models.RoleClient:
		default:
			http.Error(w, "Invalid role", http.StatusBadRequest)
			return
		}

		res, err := config.UserCollection.UpdateOne(r.Context(), bson.M{"_id": id}, bson.M{"$set": bson.M{
			"role":      payload.Role,
			"updatedAt": time.Now(),
		}})
		if err != nil {
			log.Printf("Failed to update role for user %s: %v", idHex, err)
			http.Error(w, "Failed to update role", http.StatusInternalServerError)
			return
		}
		if res.MatchedCount == 0 {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}

		respondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "User role updated",
		})
	}
}

func ToggleUserActive(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		if !policy.CanToggleActive(actor) {
			http.Error(w, "Admin access required", http.StatusForbidden)
			return
		}

		idHex := mux.Vars(r)["id"]
		id, err := primitive.ObjectIDFromHex(idHex)
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}

		var user models.User
		err = config.UserCollection.FindOne(r.Context(), bson.M{"_id": id}).Decode(&user)
		if err != nil {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}

		user.IsActive = !user.IsActive
		_, err = config.UserCollection.UpdateOne(r.Context(), bson.M{"_id": id}, bson.M{"$set": bson.M{
			"isActive":  user.IsActive,
			"updatedAt": time.Now(),
		}})
		if err != nil {
			log.Printf("Failed to toggle active for user %s: %v", idHex, err)
			http.Error(w, "Failed to update user", http.StatusInternalServerError)
			return
		}

		user.Password = ""
		respondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "User activation updated",
			Data:    user,
		})
	}
}

func UpdateProfile(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		var payload struct {
			Name    *string `json:"name"`
			Phone   *string `json:"phone"`
			Address *string `json:"address"`
			Avatar  *string `json:"avatar"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		update := bson.M{"updatedAt": time.Now()}
		if payload.Name != nil {
			update["name"] = *payload.Name
		}
		if payload.Phone != nil {
			update["phone"] = *payload.Phone
		}
		if payload.Address != nil {
			update["address"] = *payload.Address
		}
		if payload.Avatar != nil {
			update["avatar"] = *payload.Avatar
		}

		var user models.User
		err := config.UserCollection.FindOneAndUpdate(
			r.Context(),
			bson.M{"_id": actor.ID},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&user)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				http.Error(w, "User not found", http.StatusNotFound)
				return
			}
			log.Printf("Failed to update profile for user %s: %v", actor.ID.Hex(), err)
			http.Error(w, "Failed to update profile", http.StatusInternalServerError)
			return
		}

		user.Password = ""
		respondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Profile updated successfully",
			Data:    user,
		})
	}
}

func ChangePassword(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		var payload struct {
			CurrentPassword string `json:"currentPassword"`
			NewPassword     string `json:"newPassword"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if payload.NewPassword == "" {
			http.Error(w, "New password is required", http.StatusBadRequest)
			return
		}

		var user models.User
		err := config.UserCollection.FindOne(r.Context(), bson.M{"_id": actor.ID}).Decode(&user)
		if err != nil {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}

		if !utils.CheckPasswordHash(payload.CurrentPassword, user.Password) {
			http.Error(w, "Current password is incorrect", http.StatusForbidden)
			return
		}

		hashed, err := utils.HashPassword(payload.NewPassword)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			http.Error(w, "Failed to change password", http.StatusInternalServerError)
			return
		}

		_, err = config.UserCollection.UpdateOne(r.Context(), bson.M{"_id": actor.ID}, bson.M{"$set": bson.M{
			"password":  hashed,
			"updatedAt": time.Now(),
		}})
		if err != nil {
			log.Printf("Failed to change password for user %s: %v", actor.ID.Hex(), err)
			http.Error(w, "Failed to change password", http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Password changed successfully",
		})
	}
}
