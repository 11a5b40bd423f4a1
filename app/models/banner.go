package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audiences a banner can target.
var BannerAudiences = []string{"all", "new_users", "returning_users", "vip_users"}

// Banner is a storefront promotional slide.
type Banner struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"       json:"_id"`
	Title           string             `bson:"title"               json:"title"`
	Description     string             `bson:"description"         json:"description"`
	Image           string             `bson:"image"               json:"image"`
	Link            string             `bson:"link"                json:"link"`
	ButtonText      string             `bson:"buttonText"          json:"buttonText"`
	IsActive        bool               `bson:"isActive"            json:"isActive"`
	Order           int                `bson:"order"               json:"order"`
	StartDate       *time.Time         `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate         *time.Time         `bson:"endDate,omitempty"   json:"endDate,omitempty"`
	ClickCount      int                `bson:"clickCount"          json:"clickCount"`
	ViewCount       int                `bson:"viewCount"           json:"viewCount"`
	TargetAudience  string             `bson:"targetAudience"      json:"targetAudience"`
	BackgroundColor string             `bson:"backgroundColor"     json:"backgroundColor"`
	TextColor       string             `bson:"textColor"           json:"textColor"`
	CreatedAt       time.Time          `bson:"createdAt"           json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"           json:"updatedAt"`
}

// IsCurrentlyActive reports whether b is enabled and now falls in its
// optional [StartDate, EndDate] window.
func (b Banner) IsCurrentlyActive(now time.Time) bool {
	if !b.IsActive {
		return false
	}
	if b.StartDate != nil && b.StartDate.After(now) {
		return false
	}
	if b.EndDate != nil && b.EndDate.Before(now) {
		return false
	}
	return true
}

// MarshalJSON adds the derived isCurrentlyActive field.
func (b Banner) MarshalJSON() ([]byte, error) {
	type plain Banner
	return json.Marshal(struct {
		plain
		IsCurrentlyActive bool `json:"isCurrentlyActive"`
	}{plain(b), b.IsCurrentlyActive(time.Now())})
}
