package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type PropertyImage struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PropertyID primitive.ObjectID `bson:"propertyId" json:"propertyId"`
	ImagePath  string             `bson:"imagePath" json:"imagePath"`
	Order      int                `bson:"order" json:"order"`
	IsPrimary  bool               `bson:"isPrimary" json:"isPrimary"`
}
