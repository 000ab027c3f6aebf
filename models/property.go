package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PropertyStatusAvailable = "available"
	PropertyStatusSold      = "sold"
	PropertyStatusPending   = "pending"
	PropertyStatusRented    = "rented"
)

const (
	ListingTypeSale = "sale"
	ListingTypeRent = "rent"
)

type Property struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AgentID      primitive.ObjectID `bson:"agentId" json:"agentId"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Address      string             `bson:"address" json:"address"`
	City         string             `bson:"city" json:"city"`
	State        string             `bson:"state" json:"state"`
	ZipCode      string             `bson:"zipCode" json:"zipCode"`
	Country      string             `bson:"country" json:"country"`
	Price        float64            `bson:"price" json:"price"`
	Bedrooms     int                `bson:"bedrooms" json:"bedrooms"`
	Bathrooms    int                `bson:"bathrooms" json:"bathrooms"`
	SquareFeet   int                `bson:"squareFeet" json:"squareFeet"`
	LotSize      int                `bson:"lotSize" json:"lotSize"`
	PropertyType string             `bson:"propertyType" json:"propertyType"`
	Status       string             `bson:"status" json:"status"`
	ListingType  string             `bson:"listingType" json:"listingType"`
	YearBuilt    int                `bson:"yearBuilt" json:"yearBuilt"`
	Amenities    []string           `bson:"amenities" json:"amenities"`
	Featured     bool               `bson:"featured" json:"featured"`
	IsFavorite   bool               `bson:"-" json:"isFavorite,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
	DeletedAt    *time.Time         `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
}
