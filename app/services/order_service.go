package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/nomfood/storefront/app/models"
	"github.com/nomfood/storefront/app/repositories"
	"github.com/nomfood/storefront/pkg/apperr"
	"github.com/nomfood/storefront/pkg/auth"
	"github.com/nomfood/storefront/pkg/logger"
	"github.com/nomfood/storefront/pkg/metrics"
	"github.com/nomfood/storefront/pkg/paginate"
)

const (
	msgOrderNotFound     = "Không tìm thấy đơn hàng"
	msgOrderEmpty        = "Không có sản phẩm trong đơn hàng"
	msgOrderViewDenied   = "Không có quyền truy cập đơn hàng này"
	msgOrderCancelDenied = "Không có quyền hủy đơn hàng này"
	msgOrderNotCancel    = "Không thể hủy đơn hàng này"
	defaultCancelReason  = "Khách hàng hủy đơn"
)

// OrderItemInput is one requested line. Name and price sent by the client
// are ignored; the live product is authoritative.
type OrderItemInput struct {
	Product  string `json:"product"  validate:"required,objectid"`
	Quantity int    `json:"quantity" validate:"required,min=1,max=100"`
	Name     string `json:"name,omitempty"`
}

// CreateOrderInput is the checkout payload.
type CreateOrderInput struct {
	OrderItems      []OrderItemInput       `json:"orderItems"      validate:"dive"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress" validate:"required"`
	PaymentMethod   string                 `json:"paymentMethod"   validate:"omitempty,oneof=cod bank_transfer momo vnpay"`
	Note            string                 `json:"note"            validate:"max=500"`
}

// UpdateStatusInput is the staff status change payload.
type UpdateStatusInput struct {
	Status     string `json:"status"     validate:"required"`
	Note       string `json:"note"       validate:"max=500"`
	StaffNotes string `json:"staffNotes" validate:"max=1000"`
}

// OrderService runs the order lifecycle.
type OrderService struct {
	orders   OrderStore
	products ProductStore
	seq      Sequence
	events   Publisher
	now      Clock
}

func NewOrderService(orders OrderStore, products ProductStore, seq Sequence, events Publisher) *OrderService {
	return &OrderService{orders: orders, products: products, seq: seq, events: events, now: time.Now}
}

// WithClock replaces the time source.
func (s *OrderService) WithClock(c Clock) *OrderService {
	s.now = c
	return s
}

// OrderNumber formats NF + creation millis + a zero-padded sequence.
func OrderNumber(at time.Time, seq int64) string {
	return fmt.Sprintf("NF%d%04d", at.UnixMilli(), seq)
}

// Create prices every line from the live catalogue and inserts the order.
// Any invalid line aborts before anything is written.
func (s *OrderService) Create(ctx context.Context, user auth.Principal, in CreateOrderInput) (*models.Order, error) {
	if len(in.OrderItems) == 0 {
		return nil, apperr.Validation(msgOrderEmpty)
	}

	items := make([]models.OrderItem, 0, len(in.OrderItems))
	for _, line := range in.OrderItems {
		label := line.Name
		if label == "" {
			label = line.Product
		}
		notFound := fmt.Sprintf("Sản phẩm %s không tồn tại", label)

		id, err := repositories.ParseID(line.Product, notFound)
		if err != nil {
			return nil, err
		}
		p, err := s.products.FindByID(ctx, id)
		if err != nil {
			if apperr.IsKind(err, apperr.KindNotFound) {
				return nil, apperr.NotFound(notFound)
			}
			return nil, err
		}
		if !p.IsAvailable {
			return nil, apperr.InvalidState(fmt.Sprintf("Sản phẩm %s hiện không có sẵn", p.Name))
		}
		if line.Quantity < 1 {
			return nil, apperr.Validation("Số lượng phải lớn hơn 0")
		}
		items = append(items, models.OrderItem{
			Product:  p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Quantity: line.Quantity,
			Image:    p.Image,
		})
	}

	now := s.now()
	n, err := s.seq.Next(ctx, repositories.OrderSequence)
	if err != nil {
		return nil, err
	}

	method := in.PaymentMethod
	if method == "" {
		method = models.PaymentCOD
	}
	o := &models.Order{
		OrderNumber:     OrderNumber(now, n),
		User:            user.ID,
		OrderItems:      items,
		Status:          models.StatusPending,
		PaymentMethod:   method,
		PaymentStatus:   models.PaymentPending,
		ShippingAddress: in.ShippingAddress,
		Note:            strings.TrimSpace(in.Note),
		StatusHistory:   []models.StatusChange{},
		CreatedAt:       now,
	}
	o.TotalPrice = o.ItemsTotal() + o.ShippingFee - o.Discount

	if err := s.orders.Insert(ctx, o); err != nil {
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	s.events.Fire(ctx, EventOrderPlaced, o)
	logger.WithCtx(ctx).Info("order placed", "order", o.OrderNumber, "total", o.TotalPrice, "lines", len(items))
	return o, nil
}

func (s *OrderService) find(ctx context.Context, id string) (*models.Order, error) {
	oid, err := repositories.ParseID(id, msgOrderNotFound)
	if err != nil {
		return nil, err
	}
	return s.orders.FindByID(ctx, oid)
}

// Get returns an order to its owner or to staff.
func (s *OrderService) Get(ctx context.Context, id string, actor auth.Principal) (*models.Order, error) {
	o, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.User != actor.ID && !actor.IsStaff() {
		return nil, apperr.Forbidden(msgOrderViewDenied)
	}
	return o, nil
}

// ListMine pages the caller's own orders, newest first.
func (s *OrderService) ListMine(ctx context.Context, user auth.Principal, p paginate.Params) (paginate.Page[models.Order], error) {
	items, total, err := s.orders.ListByUser(ctx, user.ID, p)
	if err != nil {
		return paginate.Page[models.Order]{}, err
	}
	return paginate.NewPage(items, p, total), nil
}

// ListAll pages every order for staff.
func (s *OrderService) ListAll(ctx context.Context, q repositories.OrderQuery) (paginate.Page[models.OrderView], error) {
	items, total, err := s.orders.List(ctx, q)
	if err != nil {
		return paginate.Page[models.OrderView]{}, err
	}
	return paginate.NewPage(items, q.Page, total), nil
}

// UpdateStatus applies a staff transition and records it in the history.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, in UpdateStatusInput, actor auth.Principal) (*models.Order, error) {
	if !IsKnownStatus(in.Status) {
		return nil, apperr.Validation("Trạng thái đơn hàng không hợp lệ")
	}
	o, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, in.Status) {
		return nil, apperr.InvalidState(fmt.Sprintf("Không thể chuyển đơn hàng từ \"%s\" sang \"%s\"",
			StatusLabel(o.Status), StatusLabel(in.Status)))
	}

	var set bson.D
	if in.StaffNotes != "" {
		set = append(set, bson.E{Key: "staffNotes", Value: in.StaffNotes})
	}
	return s.transition(ctx, o, in.Status, strings.TrimSpace(in.Note), set, actor)
}

// Cancel lets the owner or staff cancel a non-terminal order.
func (s *OrderService) Cancel(ctx context.Context, id, reason string, actor auth.Principal) (*models.Order, error) {
	o, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.User != actor.ID && !actor.IsStaff() {
		return nil, apperr.Forbidden(msgOrderCancelDenied)
	}
	if !CanTransition(o.Status, models.StatusCancelled) {
		return nil, apperr.InvalidState(msgOrderNotCancel)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultCancelReason
	}
	return s.transition(ctx, o, models.StatusCancelled, reason, nil, actor)
}

// transition writes the new status with exactly one history entry. The store
// only applies it while the order is still in o.Status.
func (s *OrderService) transition(ctx context.Context, o *models.Order, to, note string, set bson.D, actor auth.Principal) (*models.Order, error) {
	now := s.now()
	set = append(set, bson.E{Key: "status", Value: to})
	switch to {
	case models.StatusDelivered:
		set = append(set, bson.E{Key: "deliveredAt", Value: now})
	case models.StatusCancelled:
		set = append(set, bson.E{Key: "cancelReason", Value: note})
	}

	by := actor.ID
	entry := models.StatusChange{Status: to, Note: note, UpdatedBy: &by, UpdatedAt: now}

	updated, err := s.orders.Transition(ctx, o.ID, o.Status, set, entry)
	if err != nil {
		return nil, err
	}

	log := logger.WithCtx(ctx)
	if to == models.StatusDelivered {
		if err := s.products.AddSold(ctx, updated.OrderItems); err != nil {
			log.Error("order: sold count update failed", "order", updated.OrderNumber, "error", err)
		}
	}

	metrics.OrderTransitions.WithLabelValues(o.Status, to).Inc()
	s.events.Fire(ctx, EventOrderStatusChanged, OrderStatusChanged{Order: updated, From: o.Status, To: to, By: actor.ID})
	log.Info("order status changed", "order", updated.OrderNumber, "from", o.Status, "to", to, "by", actor.ID.Hex())
	return updated, nil
}
