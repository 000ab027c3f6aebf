package controllers

import (
	"context"
	"log"
	"net/http"

	"github.com/realty-marketplace/backend/config"
	"github.com/realty-marketplace/backend/models"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ToggleFavorite adds the property to the actor's favorites, or removes it
// when it is already there. The unique (userId, propertyId) index keeps
// racing requests from creating duplicate rows.
func ToggleFavorite(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			log.Println("User missing in context")
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		propertyIDHex := mux.Vars(r)["id"]
		propertyID, err := primitive.ObjectIDFromHex(propertyIDHex)
		if err != nil {
			log.Println("Invalid property ID format ", err)
			http.Error(w, "Invalid property ID format", http.StatusBadRequest)
			return
		}

		count, err := config.PropertyCollection.CountDocuments(context.TODO(), bson.M{"_id": propertyID, "deletedAt": nil})
		if err != nil {
			log.Println("Failed to check property ", err)
			http.Error(w, "Failed to check property", http.StatusInternalServerError)
			return
		}
		if count == 0 {
			http.Error(w, "Property not found", http.StatusNotFound)
			return
		}

		pairFilter := bson.M{"userId": actor.ID, "propertyId": propertyID}

		deleteResult, err := config.FavoriteCollection.DeleteOne(context.TODO(), pairFilter)
		if err != nil {
			log.Println("Failed to toggle favorite ", err)
			http.Error(w, "Failed to toggle favorite", http.StatusInternalServerError)
			return
		}
		if deleteResult.DeletedCount > 0 {
			respondJSON(w, http.StatusOK, models.APIResponse{
				Success: true,
				Message: "Property removed from favorites",
			})
			return
		}

		fav := models.Favorite{
			ID:         primitive.NewObjectID(),
			UserID:     actor.ID,
			PropertyID: propertyID,
		}
		_, err = config.FavoriteCollection.InsertOne(context.TODO(), fav)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				http.Error(w, "Property is already in favorites", http.StatusConflict)
				return
			}
			log.Println("Failed to add property to favorites ", err)
			http.Error(w, "Failed to add property to favorites", http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusCreated, models.APIResponse{
			Success: true,
			Message: "Property added to favorites",
			Data:    fav,
		})
	}
}

func GetFavorites(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			log.Println("User missing in context")
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		pipeline := mongo.Pipeline{
			{
				{Key: "$match", Value: bson.M{"userId": actor.ID}},
			},
			{
				{Key: "$lookup", Value: bson.M{
					"from":         "properties",
					"localField":   "propertyId",
					"foreignField": "_id",
					"as":           "propertyDetails",
				}},
			},
			{
				{Key: "$unwind", Value: "$propertyDetails"},
			},
			{
				{Key: "$match", Value: bson.M{"propertyDetails.deletedAt": nil}},
			},
			{
				{Key: "$replaceRoot", Value: bson.M{"newRoot": "$propertyDetails"}},
			},
		}

		cursor, err := config.FavoriteCollection.Aggregate(context.TODO(), pipeline)
		if err != nil {
			log.Println("Failed to fetch favorite properties ", err)
			http.Error(w, "Failed to fetch favorite properties", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(context.TODO())

		properties := []models.Property{}
		if err := cursor.All(context.TODO(), &properties); err != nil {
			log.Println("Failed to decode favorite properties ", err)
			http.Error(w, "Failed to decode favorite properties", http.StatusInternalServerError)
			return
		}

		for i := range properties {
			properties[i].IsFavorite = true
		}

		respondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Fetched favorite properties",
			Data:    properties,
		})
	}
}
