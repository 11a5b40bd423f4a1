package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminResponse is a staff reply to a review.
type AdminResponse struct {
	Message     string             `bson:"message"     json:"message"`
	RespondedBy primitive.ObjectID `bson:"respondedBy" json:"respondedBy"`
	CreatedAt   time.Time          `bson:"createdAt"   json:"createdAt"`
}

// Review is one user's rating of one product.
type Review struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"           json:"_id"`
	User          primitive.ObjectID `bson:"user"                    json:"user"`
	Product       primitive.ObjectID `bson:"product"                 json:"product"`
	Rating        int                `bson:"rating"                  json:"rating"`
	Comment       string             `bson:"comment,omitempty"       json:"comment,omitempty"`
	Images        []string           `bson:"images"                  json:"images"`
	IsApproved    bool               `bson:"isApproved"              json:"isApproved"`
	AdminResponse *AdminResponse     `bson:"adminResponse,omitempty" json:"adminResponse,omitempty"`
	HelpfulCount  int                `bson:"helpfulCount"            json:"helpfulCount"`
	ReportCount   int                `bson:"reportCount"             json:"reportCount"`
	CreatedAt     time.Time          `bson:"createdAt"               json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"               json:"updatedAt"`
}

// ReviewView is a review with reviewer and product populated.
type ReviewView struct {
	Review      `bson:",inline"`
	Reviewer    *UserSummary    `bson:"reviewer,omitempty"    json:"reviewer,omitempty"`
	ProductInfo *ProductSummary `bson:"productInfo,omitempty" json:"productInfo,omitempty"`
}
