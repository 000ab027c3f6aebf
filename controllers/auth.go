package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/realty-marketplace/backend/config"
	"github.com/realty-marketplace/backend/models"
	"github.com/realty-marketplace/backend/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Response struct {
	Message string       `json:"message"`
	Token   string       `json:"token,omitempty"`
	User    *models.User `json:"user,omitempty"`
}

func RegisterUser(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var user models.User
		if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
			log.Printf("Error decoding user data: %v", err)
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}

		if user.Name == "" || user.Email == "" || user.Password == "" {
			http.Error(w, "Name, email and password are required", http.StatusBadRequest)
			return
		}

		switch user.Role {
		case "":
			user.Role = models.RoleClient
		case models.RoleClient, models.RoleAgent:
		default:
			// Admins are promoted by other admins, never self-registered.
			http.Error(w, "Invalid role", http.StatusBadRequest)
			return
		}

		exists := config.UserCollection.FindOne(context.TODO(), bson.M{"email": user.Email})
		if exists.Err() == nil {
			log.Printf("User email already exists: %s", user.Email)
			http.Error(w, "Email already exists", http.StatusConflict)
			return
		}

		hashedPwd, err := utils.HashPassword(user.Password)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			http.Error(w, "Failed to hash password", http.StatusInternalServerError)
			return
		}
		user.Password = hashedPwd
		user.IsActive = true
		user.CreatedAt = time.Now()
		user.UpdatedAt = user.CreatedAt

		_, err = config.UserCollection.InsertOne(context.TODO(), user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				http.Error(w, "Email already exists", http.StatusConflict)
				return
			}
			log.Printf("Error inserting user into the database: %v", err)
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Response{Message: "User registered successfully"})
	}
}

func LoginUser(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var credentials struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
			log.Printf("Error decoding login credentials: %v", err)
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		var dbUser models.User
		err := config.UserCollection.FindOne(context.TODO(), bson.M{"email": credentials.Email}).Decode(&dbUser)
		if err != nil {
			log.Printf("User not found: %s", credentials.Email)
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		if !utils.CheckPasswordHash(credentials.Password, dbUser.Password) {
			log.Printf("Invalid credentials for user: %s", credentials.Email)
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		if !dbUser.IsActive {
			log.Printf("Inactive account login attempt: %s", credentials.Email)
			http.Error(w, "Account is deactivated", http.StatusForbidden)
			return
		}

		token, err := utils.GenerateJWT(dbUser.ID.Hex(), dbUser.Role)
		if err != nil {
			log.Printf("Error generating JWT token: %v", err)
			http.Error(w, "Failed to generate token", http.StatusInternalServerError)
			return
		}

		dbUser.Password = ""
		json.NewEncoder(w).Encode(Response{Message: "Login successful", Token: token, User: &dbUser})
	}
}
