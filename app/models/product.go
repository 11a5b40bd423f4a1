package models

import (
	"encoding/json"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultProductImage = "/assets/images/default-product.jpg"

// Categories is the closed set of menu categories.
var Categories = []string{"Phở", "Bún", "Cơm", "Bánh Mì", "Nước Uống", "Tráng Miệng", "Khác"}

// NutritionInfo is optional per-serving nutrition data.
type NutritionInfo struct {
	Calories float64 `bson:"calories,omitempty" json:"calories,omitempty"`
	Protein  float64 `bson:"protein,omitempty"  json:"protein,omitempty"`
	Carbs    float64 `bson:"carbs,omitempty"    json:"carbs,omitempty"`
	Fat      float64 `bson:"fat,omitempty"      json:"fat,omitempty"`
}

// Product is a menu item.
type Product struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"           json:"_id"`
	Name            string             `bson:"name"                    json:"name"`
	Description     string             `bson:"description"             json:"description"`
	Price           float64            `bson:"price"                   json:"price"`
	OriginalPrice   float64            `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	Category        string             `bson:"category"                json:"category"`
	Image           string             `bson:"image"                   json:"image"`
	Images          []string           `bson:"images"                  json:"images"`
	IsAvailable     bool               `bson:"isAvailable"             json:"isAvailable"`
	IsFeatured      bool               `bson:"isFeatured"              json:"isFeatured"`
	Tags            []string           `bson:"tags"                    json:"tags"`
	NutritionInfo   *NutritionInfo     `bson:"nutritionInfo,omitempty" json:"nutritionInfo,omitempty"`
	PreparationTime int                `bson:"preparationTime"         json:"preparationTime"`
	Rating          float64            `bson:"rating"                  json:"rating"`
	NumReviews      int                `bson:"numReviews"              json:"numReviews"`
	SoldCount       int                `bson:"soldCount"               json:"soldCount"`
	ViewCount       int                `bson:"viewCount"               json:"viewCount"`
	CreatedAt       time.Time          `bson:"createdAt"               json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"               json:"updatedAt"`
}

// DiscountPercentage is the whole-percent markdown from OriginalPrice, or 0.
func (p Product) DiscountPercentage() int {
	if p.OriginalPrice > 0 && p.OriginalPrice > p.Price {
		return int(math.Floor((p.OriginalPrice-p.Price)/p.OriginalPrice*100 + 0.5))
	}
	return 0
}

// MarshalJSON adds the derived discountPercentage field.
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		DiscountPercentage int `json:"discountPercentage"`
	}{plain(p), p.DiscountPercentage()})
}

// IsValidCategory reports whether c is one of Categories.
func IsValidCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

// ProductSummary is the product projection embedded in review listings.
type ProductSummary struct {
	ID    primitive.ObjectID `bson:"_id"   json:"_id"`
	Name  string             `bson:"name"  json:"name"`
	Image string             `bson:"image" json:"image"`
}
