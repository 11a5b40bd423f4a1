package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nomfood/storefront/app/models"
	"github.com/nomfood/storefront/app/repositories"
	"github.com/nomfood/storefront/pkg/apperr"
	"github.com/nomfood/storefront/pkg/auth"
	"github.com/nomfood/storefront/pkg/paginate"
)

const (
	msgUserNotFound   = "Không tìm thấy người dùng"
	msgEmailTaken     = "Email đã được sử dụng"
	msgInvalidRole    = "Vai trò không hợp lệ"
	msgAdminNoDelete  = "Không thể xóa tài khoản admin"
	msgAdminNoDisable = "Không thể khóa tài khoản admin"
)

// UserUpdateInput is the admin edit payload. Unset fields are left alone.
type UserUpdateInput struct {
	Name     *string         `json:"name"     validate:"omitempty,min=1,max=50"`
	Email    *string         `json:"email"    validate:"omitempty,email"`
	Phone    *string         `json:"phone"    validate:"omitempty,vnphone"`
	Role     *string         `json:"role"     validate:"omitempty,oneof=user staff admin"`
	IsActive *bool           `json:"isActive"`
	Address  *models.Address `json:"address"`
}

// RoleInput is the role change payload.
type RoleInput struct {
	Role string `json:"role"`
}

// StatusInput is the activation payload.
type StatusInput struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// UserStats is the admin user overview.
type UserStats struct {
	TotalUsers    int64 `json:"totalUsers"`
	ActiveUsers   int64 `json:"activeUsers"`
	InactiveUsers int64 `json:"inactiveUsers"`
	AdminUsers    int64 `json:"adminUsers"`
	StaffUsers    int64 `json:"staffUsers"`
	RegularUsers  int64 `json:"regularUsers"`
	NewUsers      int64 `json:"newUsers"`
}

// UserService is the admin user management surface.
type UserService struct {
	users UserStore
	now   Clock
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users, now: time.Now}
}

func (s *UserService) WithClock(c Clock) *UserService {
	s.now = c
	return s
}

func userID(hex string) (primitive.ObjectID, error) {
	return repositories.ParseID(hex, msgUserNotFound)
}

func (s *UserService) List(ctx context.Context, q repositories.UserQuery) (paginate.Page[models.User], error) {
	items, total, err := s.users.List(ctx, q)
	if err != nil {
		return paginate.Page[models.User]{}, err
	}
	return paginate.NewPage(items, q.Page, total), nil
}

func (s *UserService) Get(ctx context.Context, hex string) (*models.User, error) {
	id, err := userID(hex)
	if err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

// Stats counts users by activity and role, plus sign-ups in the last 30 days.
func (s *UserService) Stats(ctx context.Context) (UserStats, error) {
	var st UserStats
	var err error
	if st.TotalUsers, err = s.users.Count(ctx, nil); err != nil {
		return st, err
	}
	if st.ActiveUsers, err = s.users.Count(ctx, bson.D{{Key: "isActive", Value: true}}); err != nil {
		return st, err
	}
	st.InactiveUsers = st.TotalUsers - st.ActiveUsers

	roles, err := s.users.CountByRole(ctx)
	if err != nil {
		return st, err
	}
	for _, rc := range roles {
		switch rc.Role {
		case auth.RoleAdmin:
			st.AdminUsers = rc.Count
		case auth.RoleStaff:
			st.StaffUsers = rc.Count
		case auth.RoleUser:
			st.RegularUsers = rc.Count
		}
	}

	since := s.now().AddDate(0, 0, -30)
	st.NewUsers, err = s.users.Count(ctx, repositories.NewFilter().Since("createdAt", since).Doc())
	return st, err
}

func (s *UserService) Update(ctx context.Context, hex string, in UserUpdateInput) (*models.User, error) {
	id, err := userID(hex)
	if err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.IsActive != nil && !*in.IsActive {
		if u.Role == auth.RoleAdmin || (in.Role != nil && *in.Role == auth.RoleAdmin) {
			return nil, apperr.Business(msgAdminNoDisable)
		}
	}

	var set bson.D
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		taken, err := s.users.EmailTaken(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Duplicate("email", msgEmailTaken)
		}
		set = append(set, bson.E{Key: "email", Value: email})
	}
	if in.Name != nil {
		set = append(set, bson.E{Key: "name", Value: strings.TrimSpace(*in.Name)})
	}
	if in.Phone != nil {
		set = append(set, bson.E{Key: "phone", Value: *in.Phone})
	}
	if in.Role != nil {
		set = append(set, bson.E{Key: "role", Value: *in.Role})
	}
	if in.IsActive != nil {
		set = append(set, bson.E{Key: "isActive", Value: *in.IsActive})
	}
	if in.Address != nil {
		set = append(set, bson.E{Key: "address", Value: *in.Address})
	}
	if len(set) == 0 {
		return s.users.FindByID(ctx, id)
	}
	return s.users.Update(ctx, id, set)
}

// SetRole changes a user's role.
func (s *UserService) SetRole(ctx context.Context, hex, role string) (*models.User, error) {
	switch role {
	case auth.RoleUser, auth.RoleStaff, auth.RoleAdmin:
	default:
		return nil, apperr.Validation(msgInvalidRole)
	}
	id, err := userID(hex)
	if err != nil {
		return nil, err
	}
	return s.users.Update(ctx, id, bson.D{{Key: "role", Value: role}})
}

// SetStatus activates or locks an account. Admin accounts cannot be locked.
func (s *UserService) SetStatus(ctx context.Context, hex string, active bool) (*models.User, error) {
	id, err := userID(hex)
	if err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role == auth.RoleAdmin && !active {
		return nil, apperr.Business(msgAdminNoDisable)
	}
	return s.users.Update(ctx, id, bson.D{{Key: "isActive", Value: active}})
}

// Delete removes a non-admin account.
func (s *UserService) Delete(ctx context.Context, hex string) error {
	id, err := userID(hex)
	if err != nil {
		return err
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == auth.RoleAdmin {
		return apperr.Business(msgAdminNoDelete)
	}
	return s.users.Delete(ctx, id)
}
