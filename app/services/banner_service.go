package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nomfood/storefront/app/models"
	"github.com/nomfood/storefront/app/repositories"
	"github.com/nomfood/storefront/pkg/apperr"
	"github.com/nomfood/storefront/pkg/logger"
)

const (
	msgBannerNotFound = "Không tìm thấy banner"
	msgBannerOrder    = "Thứ tự này đã được sử dụng"
	msgInvalidData    = "Dữ liệu không hợp lệ"
)

// BannerInput is the create payload.
type BannerInput struct {
	Title           string     `json:"title"           validate:"required,max=100"`
	Description     string     `json:"description"     validate:"max=200"`
	Image           string     `json:"image"           validate:"required"`
	Link            string     `json:"link"`
	ButtonText      string     `json:"buttonText"`
	IsActive        *bool      `json:"isActive"`
	Order           int        `json:"order"           validate:"min=0"`
	StartDate       *time.Time `json:"startDate"`
	EndDate         *time.Time `json:"endDate"`
	TargetAudience  string     `json:"targetAudience"  validate:"omitempty,oneof=all new_users returning_users vip_users"`
	BackgroundColor string     `json:"backgroundColor"`
	TextColor       string     `json:"textColor"`
}

// BannerPatch is the update payload. Nil fields are left alone.
type BannerPatch struct {
	Title           *string    `json:"title"           validate:"omitempty,min=1,max=100"`
	Description     *string    `json:"description"     validate:"omitempty,max=200"`
	Image           *string    `json:"image"           validate:"omitempty,min=1"`
	Link            *string    `json:"link"`
	ButtonText      *string    `json:"buttonText"`
	IsActive        *bool      `json:"isActive"`
	Order           *int       `json:"order"           validate:"omitempty,min=0"`
	StartDate       *time.Time `json:"startDate"`
	EndDate         *time.Time `json:"endDate"`
	TargetAudience  *string    `json:"targetAudience"  validate:"omitempty,oneof=all new_users returning_users vip_users"`
	BackgroundColor *string    `json:"backgroundColor"`
	TextColor       *string    `json:"textColor"`
}

// PatchDoc lists the $set pairs for the fields present in p. Order is
// handled by Update.
func (p BannerPatch) PatchDoc() bson.D {
	var set bson.D
	add := func(key string, v interface{}) { set = append(set, bson.E{Key: key, Value: v}) }
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.Image != nil {
		add("image", *p.Image)
	}
	if p.Link != nil {
		add("link", *p.Link)
	}
	if p.ButtonText != nil {
		add("buttonText", *p.ButtonText)
	}
	if p.IsActive != nil {
		add("isActive", *p.IsActive)
	}
	if p.StartDate != nil {
		add("startDate", *p.StartDate)
	}
	if p.EndDate != nil {
		add("endDate", *p.EndDate)
	}
	if p.TargetAudience != nil {
		add("targetAudience", *p.TargetAudience)
	}
	if p.BackgroundColor != nil {
		add("backgroundColor", *p.BackgroundColor)
	}
	if p.TextColor != nil {
		add("textColor", *p.TextColor)
	}
	return set
}

// ReorderItem assigns a display rank to one banner.
type ReorderItem struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// ReorderInput is the bulk reorder payload.
type ReorderInput struct {
	Banners []ReorderItem `json:"banners"`
}

// BannerService manages storefront banners.
type BannerService struct {
	banners BannerStore
	now     Clock
}

func NewBannerService(banners BannerStore) *BannerService {
	return &BannerService{banners: banners, now: time.Now}
}

func (s *BannerService) WithClock(c Clock) *BannerService {
	s.now = c
	return s
}

func bannerID(hex string) (primitive.ObjectID, error) {
	return repositories.ParseID(hex, msgBannerNotFound)
}

func (s *BannerService) List(ctx context.Context, active *bool) ([]models.Banner, error) {
	return s.banners.List(ctx, active)
}

// Active returns the banners visible on the storefront right now.
func (s *BannerService) Active(ctx context.Context) ([]models.Banner, error) {
	return s.banners.Active(ctx, s.now())
}

func (s *BannerService) Get(ctx context.Context, hex string) (*models.Banner, error) {
	id, err := bannerID(hex)
	if err != nil {
		return nil, err
	}
	return s.banners.FindByID(ctx, id)
}

// Create inserts a banner. A zero order takes the next free rank.
func (s *BannerService) Create(ctx context.Context, in BannerInput) (*models.Banner, error) {
	order := in.Order
	if order > 0 {
		taken, err := s.banners.OrderTaken(ctx, order, primitive.NilObjectID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Business(msgBannerOrder)
		}
	} else {
		next, err := s.banners.NextOrder(ctx)
		if err != nil {
			return nil, err
		}
		order = next
	}

	b := &models.Banner{
		Title:           in.Title,
		Description:     in.Description,
		Image:           in.Image,
		Link:            orDefault(in.Link, "#"),
		ButtonText:      orDefault(in.ButtonText, "Xem thêm"),
		IsActive:        in.IsActive == nil || *in.IsActive,
		Order:           order,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		TargetAudience:  orDefault(in.TargetAudience, "all"),
		BackgroundColor: orDefault(in.BackgroundColor, "#ffffff"),
		TextColor:       orDefault(in.TextColor, "#000000"),
	}
	if b.StartDate == nil {
		now := s.now()
		b.StartDate = &now
	}
	if err := s.banners.Insert(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Update applies p. A changed order must not collide with another banner.
func (s *BannerService) Update(ctx context.Context, hex string, p BannerPatch) (*models.Banner, error) {
	id, err := bannerID(hex)
	if err != nil {
		return nil, err
	}
	current, err := s.banners.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set := p.PatchDoc()
	if p.Order != nil && *p.Order != current.Order {
		taken, err := s.banners.OrderTaken(ctx, *p.Order, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Business(msgBannerOrder)
		}
		set = append(set, bson.E{Key: "order", Value: *p.Order})
	}
	if len(set) == 0 {
		return current, nil
	}
	return s.banners.Update(ctx, id, set)
}

func (s *BannerService) Delete(ctx context.Context, hex string) error {
	id, err := bannerID(hex)
	if err != nil {
		return err
	}
	return s.banners.Delete(ctx, id)
}

// Toggle flips isActive.
func (s *BannerService) Toggle(ctx context.Context, hex string) (*models.Banner, error) {
	id, err := bannerID(hex)
	if err != nil {
		return nil, err
	}
	return s.banners.Toggle(ctx, id)
}

// Reorder writes every rank in one batch and returns the full sorted list.
func (s *BannerService) Reorder(ctx context.Context, in ReorderInput) ([]models.Banner, error) {
	if len(in.Banners) == 0 {
		return nil, apperr.Validation(msgInvalidData)
	}
	orders := make(map[primitive.ObjectID]int, len(in.Banners))
	for _, item := range in.Banners {
		id, err := primitive.ObjectIDFromHex(item.ID)
		if err != nil || item.Order < 0 {
			return nil, apperr.Validation(msgInvalidData)
		}
		orders[id] = item.Order
	}
	if err := s.banners.Reorder(ctx, orders); err != nil {
		return nil, err
	}
	return s.banners.List(ctx, nil)
}

// Click counts one click-through. Unknown ids are a 404.
func (s *BannerService) Click(ctx context.Context, hex string) error {
	id, err := bannerID(hex)
	if err != nil {
		return err
	}
	return s.banners.Increment(ctx, id, "clickCount")
}

// View counts impressions for the banners just served. Failures only log.
func (s *BannerService) View(ctx context.Context, banners []models.Banner) {
	for _, b := range banners {
		if err := s.banners.Increment(ctx, b.ID, "viewCount"); err != nil {
			logger.Warn("banner: count view", "banner", b.ID.Hex(), "error", err)
		}
	}
}

// ToggleMessage is the response text for a toggle result.
func ToggleMessage(b *models.Banner) string {
	if b.IsActive {
		return "Kích hoạt banner thành công"
	}
	return "Ẩn banner thành công"
}
