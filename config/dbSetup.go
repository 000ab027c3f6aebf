package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/realty-marketplace/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection          *mongo.Collection
	PropertyCollection      *mongo.Collection
	PropertyImageCollection *mongo.Collection
	FavoriteCollection      *mongo.Collection
	AppointmentCollection   *mongo.Collection
	InquiryCollection       *mongo.Collection
)

func ConnectDB() (*mongo.Client, error) {
	MONGO_URI := os.Getenv("MONGOURI")
	if MONGO_URI == "" {
		return nil, fmt.Errorf("MONGO_URI not set in environment")
	}

	clientOptions := options.Client().ApplyURI(MONGO_URI)
	client, err := mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("MongoDB ping failed: %v", err)
	}

	log.Println("Connected to MongoDB")
	return client, nil
}

func InitCollections(client *mongo.Client) {
	dbName := os.Getenv("DB")
	UserCollection = client.Database(dbName).Collection("users")
	PropertyCollection = client.Database(dbName).Collection("properties")
	PropertyImageCollection = client.Database(dbName).Collection("property_images")
	FavoriteCollection = client.Database(dbName).Collection("favorites")
	AppointmentCollection = client.Database(dbName).Collection("appointments")
	InquiryCollection = client.Database(dbName).Collection("inquiries")
}

// EnsureIndexes creates the unique indexes that back the domain invariants.
// The partial index on (agentId, appointmentDate) rejects a second active
// booking for the same agent and timestamp even when two requests race past
// the application-level conflict check.
func EnsureIndexes(ctx context.Context) error {
	_, err := AppointmentCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "agentId", Value: 1}, {Key: "appointmentDate", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"status": bson.M{"$in": bson.A{
					models.AppointmentStatusPending,
					models.AppointmentStatusConfirmed,
				}},
			}),
	})
	if err != nil {
		return fmt.Errorf("creating appointment slot index: %v", err)
	}

	_, err = FavoriteCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "propertyId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("creating favorite index: %v", err)
	}

	_, err = UserCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("creating user email index: %v", err)
	}

	return nil
}

func CloseDBConnection(client *mongo.Client) {
	if err := client.Disconnect(context.TODO()); err != nil {
		log.Fatalf("Error closing database connection: %v", err)
	}
	log.Println("MongoDB connection closed")
}
