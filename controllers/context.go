package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/realty-marketplace/backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContextKey string

const (
	UserIDKey   = ContextKey("userID")
	UserRoleKey = ContextKey("userRole")
)

// currentUser rebuilds the acting user from the token claims the auth
// middleware stored on the context. Policies only need identity and role,
// so no store round-trip happens here.
func currentUser(r *http.Request) (*models.User, bool) {
	idHex, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return nil, false
	}
	role, ok := r.Context().Value(UserRoleKey).(string)
	if !ok {
		return nil, false
	}
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, false
	}
	return &models.User{ID: id, Role: role}, true
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
