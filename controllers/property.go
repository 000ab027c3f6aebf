package controllers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/realty-marketplace/backend/config"
	"github.com/realty-marketplace/backend/models"
	"github.com/realty-marketplace/backend/policy"
	"github.com/gorilla/mux"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func CreateProperty(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			log.Println("User missing in context")
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		if !policy.CanCreateProperty(actor) {
			http.Error(w, "Only agents and admins can create listings", http.StatusForbidden)
			return
		}

		var property models.Property
		if err := json.NewDecoder(r.Body).Decode(&property); err != nil {
			log.Printf("Invalid request body: %v", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		property.ID = primitive.NewObjectID()
		if property.AgentID.IsZero() || !actor.IsAdmin() {
			property.AgentID = actor.ID
		}
		if property.Status == "" {
			property.Status = models.PropertyStatusAvailable
		}
		property.CreatedAt = time.Now()
		property.UpdatedAt = property.CreatedAt
		property.DeletedAt = nil

		_, err := config.PropertyCollection.InsertOne(r.Context(), property)
		if err != nil {
			log.Printf("Insert failed: %v", err)
			http.Error(w, "Failed to create property", http.StatusInternalServerError)
			return
		}

		go func() {
			deletePropertyCache(redisClient)
		}()

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(property)
	}
}

func GetAllProperties(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		cacheKey := generateCacheKey(query)

		cachedData, err := redisClient.Get(r.Context(), cacheKey).Result()
		if err == nil {
			log.Printf("Cache Hit for key: %s", cacheKey)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(cachedData))
			return
		}
		if err != redis.Nil {
			log.Printf("Redis GET error for key %s: %v", cacheKey, err)
		}

		log.Printf("Cache Miss for key: %s", cacheKey)

		filter := buildPropertyFilter(query)

		limit := int64(15)
		if raw := query.Get("limit"); raw != "" {
			if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 && parsed <= 100 {
				limit = parsed
			}
		}
		var skip int64
		if raw := query.Get("page"); raw != "" {
			if page, err := strconv.ParseInt(raw, 10, 64); err == nil && page > 1 {
				skip = (page - 1) * limit
			}
		}

		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(limit).
			SetSkip(skip)

		cursor, err := config.PropertyCollection.Find(r.Context(), filter, findOptions)
		if err != nil {
			log.Printf("Error fetching properties with query %+v: %v", filter, err)
			http.Error(w, "Error fetching properties", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		properties := []models.Property{}
		if err := cursor.All(r.Context(), &properties); err != nil {
			log.Printf("Error decoding properties: %v", err)
			http.Error(w, "Error decoding properties", http.StatusInternalServerError)
			return
		}

		resultBytes, err := json.Marshal(properties)
		if err != nil {
			log.Printf("Failed to serialize properties: %v", err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}

		err = redisClient.Set(r.Context(), cacheKey, resultBytes, 10*time.Minute).Err()
		if err != nil {
			log.Printf("Failed to cache response for key %s: %v", cacheKey, err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(resultBytes)
	}
}

// buildPropertyFilter maps browse query params onto a mongo filter.
// Soft-deleted listings never surface.
func buildPropertyFilter(query url.Values) bson.M {
	filter := bson.M{"deletedAt": nil}

	if search := query.Get("search"); search != "" {
		regex := bson.M{"$regex": primitive.Regex{Pattern: search, Options: "i"}}
		filter["$or"] = bson.A{
			bson.M{"title": regex},
			bson.M{"description": regex},
			bson.M{"address": regex},
			bson.M{"city": regex},
		}
	}
	if t := query.Get("type"); t != "" {
		filter["propertyType"] = t
	}
	if lt := query.Get("listing_type"); lt != "" {
		filter["listingType"] = lt
	}
	if status := query.Get("status"); status != "" {
		filter["status"] = status
	}
	if state := query.Get("state"); state != "" {
		filter["state"] = state
	}
	if city := query.Get("city"); city != "" {
		filter["city"] = bson.M{"$regex": primitive.Regex{Pattern: city, Options: "i"}}
	}
	if query.Get("featured") != "" {
		filter["featured"] = true
	}

	priceRange := bson.M{}
	if raw := query.Get("min_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			priceRange["$gte"] = v
		}
	}
	if raw := query.Get("max_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			priceRange["$lte"] = v
		}
	}
	if len(priceRange) > 0 {
		filter["price"] = priceRange
	}

	if raw := query.Get("bedrooms"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter["bedrooms"] = bson.M{"$gte": v}
		}
	}
	if raw := query.Get("bathrooms"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter["bathrooms"] = bson.M{"$gte": v}
		}
	}

	return filter
}

func GetFeaturedProperties() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(6)

		cursor, err := config.PropertyCollection.Find(r.Context(), bson.M{
			"deletedAt": nil,
			"featured":  true,
			"status":    models.PropertyStatusAvailable,
		}, findOptions)
		if err != nil {
			log.Printf("Error fetching featured properties: %v", err)
			http.Error(w, "Error fetching properties", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		properties := []models.Property{}
		if err := cursor.All(r.Context(), &properties); err != nil {
			log.Printf("Error decoding featured properties: %v", err)
			http.Error(w, "Error decoding properties", http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusOK, properties)
	}
}

func GetPropertyByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["id"]
		objID, err := primitive.ObjectIDFromHex(propertyID)
		if err != nil {
			log.Printf("Invalid property ID %s: %v", propertyID, err)
			http.Error(w, "Invalid property ID", http.StatusBadRequest)
			return
		}

		var property models.Property
		err = config.PropertyCollection.FindOne(r.Context(), bson.M{"_id": objID, "deletedAt": nil}).Decode(&property)
		if err != nil {
			http.Error(w, "Property not found", http.StatusNotFound)
			return
		}

		images := []models.PropertyImage{}
		imgOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
		imgCursor, err := config.PropertyImageCollection.Find(r.Context(), bson.M{"propertyId": objID}, imgOptions)
		if err == nil {
			defer imgCursor.Close(r.Context())
			if err := imgCursor.All(r.Context(), &images); err != nil {
				log.Printf("Error decoding images for property %s: %v", propertyID, err)
			}
		} else {
			log.Printf("Error fetching images for property %s: %v", propertyID, err)
		}

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"property": property,
			"images":   images,
		})
	}
}

func UpdateProperty(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			log.Println("User missing in context")
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		propertyID := mux.Vars(r)["id"]
		objID, err := primitive.ObjectIDFromHex(propertyID)
		if err != nil {
			log.Printf("Invalid property ID %s: %v", propertyID, err)
			http.Error(w, "Invalid property ID", http.StatusBadRequest)
			return
		}

		var property models.Property
		err = config.PropertyCollection.FindOne(r.Context(), bson.M{"_id": objID, "deletedAt": nil}).Decode(&property)
		if err != nil {
			http.Error(w, "Property not found", http.StatusNotFound)
			return
		}

		if !policy.CanUpdateProperty(actor, &property) {
			http.Error(w, "Not allowed to update this property", http.StatusForbidden)
			return
		}

		var updateData map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
			log.Printf("Invalid update data: %v", err)
			http.Error(w, "Invalid update data", http.StatusBadRequest)
			return
		}

		delete(updateData, "_id")
		delete(updateData, "id")
		delete(updateData, "agentId")
		delete(updateData, "createdAt")
		delete(updateData, "deletedAt")
		updateData["updatedAt"] = time.Now()

		update := bson.M{"$set": updateData}
		_, err = config.PropertyCollection.UpdateOne(r.Context(), bson.M{"_id": objID}, update)
		if err != nil {
			log.Printf("Update failed for property %s: %v", propertyID, err)
			http.Error(w, "Update failed", http.StatusInternalServerError)
			return
		}

		go func() {
			deletePropertyCache(redisClient)
		}()

		respondJSON(w, http.StatusOK, map[string]string{"message": "Property updated successfully"})
	}
}

func DeleteProperty(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			log.Println("User missing in context")
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		propertyID := mux.Vars(r)["id"]
		objID, err := primitive.ObjectIDFromHex(propertyID)
		if err != nil {
			log.Printf("Invalid property ID %s: %v", propertyID, err)
			http.Error(w, "Invalid property ID", http.StatusBadRequest)
			return
		}

		var property models.Property
		err = config.PropertyCollection.FindOne(r.Context(), bson.M{"_id": objID, "deletedAt": nil}).Decode(&property)
		if err != nil {
			http.Error(w, "Property not found", http.StatusNotFound)
			return
		}

		if !policy.CanDeleteProperty(actor, &property) {
			http.Error(w, "Not allowed to delete this property", http.StatusForbidden)
			return
		}

		// Soft delete: the listing drops out of every query but stays
		// recoverable by an admin.
		now := time.Now()
		_, err = config.PropertyCollection.UpdateOne(r.Context(), bson.M{"_id": objID}, bson.M{"$set": bson.M{
			"deletedAt": now,
			"updatedAt": now,
		}})
		if err != nil {
			log.Printf("Delete failed for property %s: %v", propertyID, err)
			http.Error(w, "Delete failed", http.StatusInternalServerError)
			return
		}

		go func() {
			deletePropertyCache(redisClient)
		}()

		respondJSON(w, http.StatusOK, map[string]string{"message": "Property deleted successfully"})
	}
}

func ToggleFeatured(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(r)
		if !ok {
			log.Println("User missing in context")
			http.Error(w, "User missing in context", http.StatusUnauthorized)
			return
		}

		propertyID := mux.Vars(r)["id"]
		objID, err := primitive.ObjectIDFromHex(propertyID)
		if err != nil {
			http.Error(w, "Invalid property ID", http.StatusBadRequest)
			return
		}

		var property models.Property
		err = config.PropertyCollection.FindOne(r.Context(), bson.M{"_id": objID, "deletedAt": nil}).Decode(&property)
		if err != nil {
			http.Error(w, "Property not found", http.StatusNotFound)
			return
		}

		if !policy.CanToggleFeatured(actor, &property) {
			http.Error(w, "Not allowed to update this property", http.StatusForbidden)
			return
		}

		property.Featured = !property.Featured
		_, err = config.PropertyCollection.UpdateOne(r.Context(), bson.M{"_id": objID}, bson.M{"$set": bson.M{
			"featured":  property.Featured,
			"updatedAt": time.Now(),
		}})
		if err != nil {
			log.Printf("Featured toggle failed for property %s: %v", propertyID, err)
			http.Error(w, "Update failed", http.StatusInternalServerError)
			return
		}

		go func() {
			deletePropertyCache(redisClient)
		}()

		respondJSON(w, http.StatusOK, models.APIResponse{
			Success: true,
			Message: "Featured status updated",
			Data:    property,
		})
	}
}

func generateCacheKey(queryParams url.Values) string {
	keys := make([]string, 0, len(queryParams))
	for k := range queryParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		values := queryParams[key]
		sort.Strings(values)
		for _, val := range values {
			sb.WriteString(key)
			sb.WriteString("=")
			sb.WriteString(val)
			sb.WriteString("&")
		}
	}
	rawKey := strings.TrimSuffix(sb.String(), "&")

	sum := sha256.Sum256([]byte(rawKey))
	return "property:" + hex.EncodeToString(sum[:])
}

func deletePropertyCache(redisClient *redis.Client) {
	ctx := context.Background()
	const scanPattern = "property:*"
	const scanCount = 100

	var keysToDelete []string
	var cursor uint64
	var err error

	for {
		var currentKeys []string
		currentKeys, cursor, err = redisClient.Scan(ctx, cursor, scanPattern, scanCount).Result()
		if err != nil {
			log.Printf("Error during Redis SCAN for pattern '%s': %v", scanPattern, err)
			return
		}
		keysToDelete = append(keysToDelete, currentKeys...)
		if cursor == 0 {
			break
		}
	}

	if len(keysToDelete) == 0 {
		return
	}

	pipe := redisClient.Pipeline()
	for _, key := range keysToDelete {
		pipe.Del(ctx, key)
	}
	_, execErr := pipe.Exec(ctx)

	if execErr != nil {
		log.Printf("Error executing pipeline for deleting %d property cache keys: %v", len(keysToDelete), execErr)
	} else {
		log.Printf("Property cache invalidated, deleted %d keys matching '%s'", len(keysToDelete), scanPattern)
	}
}
