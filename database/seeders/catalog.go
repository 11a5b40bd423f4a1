package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nomfood/storefront/app/models"
	"github.com/nomfood/storefront/app/repositories"
	"github.com/nomfood/storefront/pkg/logger"
)

func init() {
	Register("products", SeedProducts)
	Register("banners", SeedBanners)
}

var demoProducts = []models.Product{
	{
		Name:            "Phở Bò Tái",
		Description:     "Phở bò tái truyền thống với nước dùng đậm đà, thịt bò tái mềm ngon",
		Price:           45000,
		OriginalPrice:   50000,
		Category:        "Phở",
		Image:           "/assets/images/pho-bo-tai.jpg",
		IsFeatured:      true,
		Tags:            []string{"phở", "bò", "truyền thống"},
		NutritionInfo:   &models.NutritionInfo{Calories: 350, Protein: 25, Carbs: 45, Fat: 8},
		PreparationTime: 15,
		SoldCount:       150,
	},
	{
		Name:            "Bún Bò Huế",
		Description:     "Bún bò Huế cay nồng đặc trưng miền Trung với chả cua, giò heo",
		Price:           50000,
		Category:        "Bún",
		Image:           "/assets/images/bun-bo-hue.jpg",
		IsFeatured:      true,
		Tags:            []string{"bún", "bò", "huế", "cay"},
		NutritionInfo:   &models.NutritionInfo{Calories: 400, Protein: 28, Carbs: 50, Fat: 12},
		PreparationTime: 20,
		SoldCount:       95,
	},
	{
		Name:            "Cơm Tấm Sườn Nướng",
		Description:     "Cơm tấm sườn nướng thơm lừng với chả trứng, bì và nước mắm pha",
		Price:           55000,
		Category:        "Cơm",
		Image:           "/assets/images/com-tam-suon.jpg",
		Tags:            []string{"cơm", "sườn", "nướng"},
		NutritionInfo:   &models.NutritionInfo{Calories: 520, Protein: 35, Carbs: 60, Fat: 15},
		PreparationTime: 25,
		SoldCount:       200,
	},
	{
		Name:            "Bánh Mì Thịt Nướng",
		Description:     "Bánh mì giòn rụm với thịt nướng thơm ngon, rau sống tươi mát",
		Price:           25000,
		Category:        "Bánh Mì",
		Image:           "/assets/images/banh-mi-thit-nuong.jpg",
		Tags:            []string{"bánh mì", "thịt nướng"},
		NutritionInfo:   &models.NutritionInfo{Calories: 280, Protein: 18, Carbs: 35, Fat: 8},
		PreparationTime: 10,
		SoldCount:       120,
	},
	{
		Name:            "Trà Đá Chanh",
		Description:     "Trà đá chanh tươi mát, giải khát tuyệt vời",
		Price:           15000,
		Category:        "Nước Uống",
		Image:           "/assets/images/tra-da-chanh.jpg",
		Tags:            []string{"trà", "chanh", "giải khát"},
		NutritionInfo:   &models.NutritionInfo{Calories: 25, Carbs: 6},
		PreparationTime: 5,
		SoldCount:       80,
	},
	{
		Name:            "Chè Ba Màu",
		Description:     "Chè ba màu truyền thống với đậu xanh, đậu đỏ và thạch",
		Price:           20000,
		Category:        "Tráng Miệng",
		Image:           "/assets/images/che-ba-mau.jpg",
		Tags:            []string{"chè", "tráng miệng", "ngọt"},
		NutritionInfo:   &models.NutritionInfo{Calories: 180, Protein: 5, Carbs: 35, Fat: 3},
		PreparationTime: 8,
		SoldCount:       65,
	},
}

var demoBanners = []models.Banner{
	{
		Title:       "Khuyến Mãi Đặc Biệt",
		Description: "Giảm 20% cho tất cả món phở trong tuần này!",
		Image:       "/assets/images/banner-pho-sale.jpg",
		Link:        "/products?category=Phở",
		ButtonText:  "Đặt Ngay",
		Order:       1,
	},
	{
		Title:       "Món Mới Ra Mắt",
		Description: "Thử ngay bún bò Huế cay nồng đặc trưng miền Trung",
		Image:       "/assets/images/banner-bun-bo-hue.jpg",
		Link:        "/products/bun-bo-hue",
		ButtonText:  "Khám Phá",
		Order:       2,
	},
	{
		Title:       "Giao Hàng Miễn Phí",
		Description: "Miễn phí giao hàng cho đơn từ 100.000đ",
		Image:       "/assets/images/banner-free-ship.jpg",
		Link:        "/products",
		ButtonText:  "Đặt Hàng",
		Order:       3,
	},
}

// SeedProducts fills the menu with one dish per main category. Ratings
// start at zero and follow the approved reviews.
func SeedProducts(ctx context.Context, db *mongo.Database) error {
	now := time.Now().UTC()
	docs := make([]bson.D, 0, len(demoProducts))
	for _, p := range demoProducts {
		docs = append(docs, bson.D{
			{Key: "name", Value: p.Name},
			{Key: "description", Value: p.Description},
			{Key: "price", Value: p.Price},
			{Key: "originalPrice", Value: p.OriginalPrice},
			{Key: "category", Value: p.Category},
			{Key: "image", Value: p.Image},
			{Key: "images", Value: []string{}},
			{Key: "isAvailable", Value: true},
			{Key: "isFeatured", Value: p.IsFeatured},
			{Key: "tags", Value: p.Tags},
			{Key: "nutritionInfo", Value: p.NutritionInfo},
			{Key: "preparationTime", Value: p.PreparationTime},
			{Key: "rating", Value: 0.0},
			{Key: "numReviews", Value: 0},
			{Key: "soldCount", Value: p.SoldCount},
			{Key: "viewCount", Value: 0},
			{Key: "createdAt", Value: now},
			{Key: "updatedAt", Value: now},
		})
	}

	n, err := insertMissing(ctx, db.Collection(repositories.ProductsCollection), "name", docs)
	if err != nil {
		return err
	}
	logger.Info("products seeded", "inserted", n, "total", len(docs))
	return nil
}

// SeedBanners adds the home page carousel.
func SeedBanners(ctx context.Context, db *mongo.Database) error {
	now := time.Now().UTC()
	docs := make([]bson.D, 0, len(demoBanners))
	for _, b := range demoBanners {
		docs = append(docs, bson.D{
			{Key: "title", Value: b.Title},
			{Key: "description", Value: b.Description},
			{Key: "image", Value: b.Image},
			{Key: "link", Value: b.Link},
			{Key: "buttonText", Value: b.ButtonText},
			{Key: "isActive", Value: true},
			{Key: "order", Value: b.Order},
			{Key: "startDate", Value: now},
			{Key: "clickCount", Value: 0},
			{Key: "viewCount", Value: 0},
			{Key: "targetAudience", Value: "all"},
			{Key: "backgroundColor", Value: "#ffffff"},
			{Key: "textColor", Value: "#000000"},
			{Key: "createdAt", Value: now},
			{Key: "updatedAt", Value: now},
		})
	}

	n, err := insertMissing(ctx, db.Collection(repositories.BannersCollection), "title", docs)
	if err != nil {
		return err
	}
	logger.Info("banners seeded", "inserted", n, "total", len(docs))
	return nil
}
