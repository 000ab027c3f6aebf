package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin  = "admin"
	RoleAgent  = "agent"
	RoleClient = "client"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"password,omitempty"`
	Role      string             `bson:"role" json:"role"`
	Phone     string             `bson:"phone" json:"phone,omitempty"`
	Address   string             `bson:"address" json:"address,omitempty"`
	Avatar    string             `bson:"avatar" json:"avatar,omitempty"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsAgent() bool {
	return u.Role == RoleAgent
}

func (u *User) IsClient() bool {
	return u.Role == RoleClient
}
