package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultAvatar = "/assets/images/default-avatar.png"

// Address is a postal address in Vietnamese administrative units.
type Address struct {
	Street   string `bson:"street,omitempty"   json:"street,omitempty"`
	Ward     string `bson:"ward,omitempty"     json:"ward,omitempty"`
	District string `bson:"district,omitempty" json:"district,omitempty"`
	City     string `bson:"city,omitempty"     json:"city,omitempty"`
}

// User is a customer, staff member or administrator account.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"       json:"_id"`
	Name      string             `bson:"name"                json:"name"`
	Email     string             `bson:"email"               json:"email"`
	Password  string             `bson:"password"            json:"-"` // bcrypt hash, never serialised
	Phone     string             `bson:"phone,omitempty"     json:"phone,omitempty"`
	Address   Address            `bson:"address"             json:"address"`
	Role      string             `bson:"role"                json:"role"`
	IsActive  bool               `bson:"isActive"            json:"isActive"`
	Avatar    string             `bson:"avatar"              json:"avatar"`
	LastLogin *time.Time         `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"           json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"           json:"updatedAt"`
}

// UserSummary is the subset of a user embedded in order and review listings.
type UserSummary struct {
	ID     primitive.ObjectID `bson:"_id"              json:"_id"`
	Name   string             `bson:"name"             json:"name"`
	Email  string             `bson:"email,omitempty"  json:"email,omitempty"`
	Phone  string             `bson:"phone,omitempty"  json:"phone,omitempty"`
	Avatar string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

// Summary returns the public projection of u.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Avatar: u.Avatar}
}
