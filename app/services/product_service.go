package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/nomfood/storefront/app/models"
	"github.com/nomfood/storefront/app/repositories"
	"github.com/nomfood/storefront/pkg/apperr"
	"github.com/nomfood/storefront/pkg/cache"
	"github.com/nomfood/storefront/pkg/paginate"
)

const (
	msgProductNotFound = "Sản phẩm không tồn tại"

	// CategoriesCacheKey holds the distinct categories of available products.
	CategoriesCacheKey = "products:categories"
	categoriesTTL      = 5 * time.Minute
	featuredLimit      = 8
)

// ProductInput is the create payload. Update uses the same fields, all
// optional.
type ProductInput struct {
	Name            string                `json:"name"            validate:"required,max=100"`
	Description     string                `json:"description"     validate:"required,max=1000"`
	Price           *float64              `json:"price"           validate:"required,gte=0"`
	OriginalPrice   *float64              `json:"originalPrice"   validate:"omitempty,gte=0"`
	Category        string                `json:"category"        validate:"required"`
	Image           string                `json:"image"`
	Images          []string              `json:"images"`
	IsAvailable     *bool                 `json:"isAvailable"`
	IsFeatured      *bool                 `json:"isFeatured"`
	Tags            []string              `json:"tags"`
	NutritionInfo   *models.NutritionInfo `json:"nutritionInfo"`
	PreparationTime *int                  `json:"preparationTime" validate:"omitempty,gte=0"`
}

// ProductPatch is the partial update payload.
type ProductPatch struct {
	Name            *string               `json:"name"            validate:"omitempty,min=1,max=100"`
	Description     *string               `json:"description"     validate:"omitempty,max=1000"`
	Price           *float64              `json:"price"           validate:"omitempty,gte=0"`
	OriginalPrice   *float64              `json:"originalPrice"   validate:"omitempty,gte=0"`
	Category        *string               `json:"category"`
	Image           *string               `json:"image"`
	Images          []string              `json:"images"`
	IsAvailable     *bool                 `json:"isAvailable"`
	IsFeatured      *bool                 `json:"isFeatured"`
	Tags            []string              `json:"tags"`
	NutritionInfo   *models.NutritionInfo `json:"nutritionInfo"`
	PreparationTime *int                  `json:"preparationTime" validate:"omitempty,gte=0"`
}

// CatalogPage is a product listing with the category filter options.
type CatalogPage struct {
	paginate.Page[models.Product]
	Categories []string
}

// ProductService serves the catalogue.
type ProductService struct {
	products ProductStore
	events   Publisher
	now      Clock
}

func NewProductService(products ProductStore, events Publisher) *ProductService {
	return &ProductService{products: products, events: events, now: time.Now}
}

// List pages the catalogue and attaches the category list.
func (s *ProductService) List(ctx context.Context, q repositories.ProductQuery) (CatalogPage, error) {
	items, total, err := s.products.List(ctx, q)
	if err != nil {
		return CatalogPage{}, err
	}
	cats, err := s.Categories(ctx)
	if err != nil {
		return CatalogPage{}, err
	}
	return CatalogPage{Page: paginate.NewPage(items, q.Page, total), Categories: cats}, nil
}

// Categories returns the distinct categories of available products,
// cached for a few minutes.
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	cats, err := cache.Remember(ctx, CategoriesCacheKey, categoriesTTL, s.products.Categories)
	if cats == nil && err == nil {
		cats = []string{}
	}
	return cats, err
}

// Featured returns the newest featured products that can be ordered.
func (s *ProductService) Featured(ctx context.Context) ([]models.Product, error) {
	items, err := s.products.Featured(ctx, featuredLimit)
	if items == nil && err == nil {
		items = []models.Product{}
	}
	return items, err
}

// Get returns a product and counts the view.
func (s *ProductService) Get(ctx context.Context, hex string) (*models.Product, error) {
	id, err := repositories.ParseID(hex, msgProductNotFound)
	if err != nil {
		return nil, err
	}
	return s.products.IncrementViews(ctx, id)
}

func checkCategory(c string) error {
	if !models.IsValidCategory(c) {
		return apperr.ValidationFields(map[string]string{
			"category": "Danh mục phải là một trong: " + strings.Join(models.Categories, ", "),
		})
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := checkCategory(in.Category); err != nil {
		return nil, err
	}
	now := s.now()
	p := &models.Product{
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		Category:      in.Category,
		Image:         in.Image,
		Images:        in.Images,
		IsAvailable:   true,
		Tags:          in.Tags,
		NutritionInfo: in.NutritionInfo,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.OriginalPrice != nil {
		p.OriginalPrice = *in.OriginalPrice
	}
	if in.IsAvailable != nil {
		p.IsAvailable = *in.IsAvailable
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
	p.PreparationTime = 15
	if in.PreparationTime != nil {
		p.PreparationTime = *in.PreparationTime
	}
	if p.Image == "" {
		p.Image = models.DefaultProductImage
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	if err := s.products.Insert(ctx, p); err != nil {
		return nil, err
	}
	s.events.Fire(ctx, EventProductChanged, ProductChanged{ID: p.ID, Action: "created"})
	return p, nil
}

// PatchDoc converts the set fields of in to a $set document.
func (in ProductPatch) PatchDoc() bson.D {
	var set bson.D
	add := func(key string, v interface{}) { set = append(set, bson.E{Key: key, Value: v}) }
	if in.Name != nil {
		add("name", strings.TrimSpace(*in.Name))
	}
	if in.Description != nil {
		add("description", strings.TrimSpace(*in.Description))
	}
	if in.Price != nil {
		add("price", *in.Price)
	}
	if in.OriginalPrice != nil {
		add("originalPrice", *in.OriginalPrice)
	}
	if in.Category != nil {
		add("category", *in.Category)
	}
	if in.Image != nil {
		add("image", *in.Image)
	}
	if in.Images != nil {
		add("images", in.Images)
	}
	if in.IsAvailable != nil {
		add("isAvailable", *in.IsAvailable)
	}
	if in.IsFeatured != nil {
		add("isFeatured", *in.IsFeatured)
	}
	if in.Tags != nil {
		add("tags", in.Tags)
	}
	if in.NutritionInfo != nil {
		add("nutritionInfo", in.NutritionInfo)
	}
	if in.PreparationTime != nil {
		add("preparationTime", *in.PreparationTime)
	}
	return set
}

// Update applies a partial change.
func (s *ProductService) Update(ctx context.Context, hex string, in ProductPatch) (*models.Product, error) {
	id, err := repositories.ParseID(hex, msgProductNotFound)
	if err != nil {
		return nil, err
	}
	if in.Category != nil {
		if err := checkCategory(*in.Category); err != nil {
			return nil, err
		}
	}
	set := in.PatchDoc()
	if len(set) == 0 {
		return s.products.FindByID(ctx, id)
	}
	p, err := s.products.Update(ctx, id, set)
	if err != nil {
		return nil, err
	}
	s.events.Fire(ctx, EventProductChanged, ProductChanged{ID: p.ID, Action: "updated"})
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, hex string) error {
	id, err := repositories.ParseID(hex, msgProductNotFound)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Fire(ctx, EventProductChanged, ProductChanged{ID: id, Action: "deleted"})
	return nil
}
