package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomfood/storefront/app/models"
	"github.com/nomfood/storefront/pkg/apperr"
	"github.com/nomfood/storefront/pkg/auth"
)

func seedUsers() (*fakeUsers, *models.User, *models.User) {
	admin := &models.User{Name: "Quản trị", Email: "admin@nomfood.vn", Role: auth.RoleAdmin, IsActive: true, CreatedAt: fixedNow.AddDate(-1, 0, 0)}
	cust := &models.User{Name: "Lan", Email: "lan@example.com", Role: auth.RoleUser, IsActive: true, CreatedAt: fixedNow.AddDate(0, 0, -3)}
	users := newFakeUsers(
		admin, cust,
		&models.User{Name: "Minh", Email: "minh@nomfood.vn", Role: auth.RoleStaff, IsActive: true, CreatedAt: fixedNow.AddDate(0, -2, 0)},
		&models.User{Name: "Tú", Email: "tu@example.com", Role: auth.RoleUser, IsActive: false, CreatedAt: fixedNow.AddDate(0, 0, -10)},
	)
	return users, admin, cust
}

func TestUserStats(t *testing.T) {
	users, _, _ := seedUsers()
	st, err := NewUserService(users).WithClock(pinned).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, UserStats{
		TotalUsers: 4, ActiveUsers: 3, InactiveUsers: 1,
		AdminUsers: 1, StaffUsers: 1, RegularUsers: 2,
		NewUsers: 2,
	}, st)
}

func TestUserUpdate_EmailUnique(t *testing.T) {
	ctx := context.Background()
	users, _, cust := seedUsers()
	svc := NewUserService(users)

	_, err := svc.Update(ctx, cust.ID.Hex(), UserUpdateInput{Email: ptr("ADMIN@nomfood.vn")})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindDuplicate))
	assert.Equal(t, msgEmailTaken, message(err))

	// keeping your own address is fine
	got, err := svc.Update(ctx, cust.ID.Hex(), UserUpdateInput{Email: ptr("lan@example.com"), Name: ptr(" Lan Anh ")})
	require.NoError(t, err)
	assert.Equal(t, "Lan Anh", got.Name)
}

func TestUserSetRole(t *testing.T) {
	ctx := context.Background()
	users, _, cust := seedUsers()
	svc := NewUserService(users)

	_, err := svc.SetRole(ctx, cust.ID.Hex(), "owner")
	assert.Equal(t, msgInvalidRole, message(err))

	got, err := svc.SetRole(ctx, cust.ID.Hex(), auth.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleStaff, got.Role)
}

func TestUserAdminGuards(t *testing.T) {
	ctx := context.Background()
	users, admin, cust := seedUsers()
	svc := NewUserService(users)

	_, err := svc.SetStatus(ctx, admin.ID.Hex(), false)
	assert.Equal(t, msgAdminNoDisable, message(err))

	err = svc.Delete(ctx, admin.ID.Hex())
	assert.Equal(t, msgAdminNoDelete, message(err))
	assert.Len(t, users.items, 4)

	got, err := svc.SetStatus(ctx, cust.ID.Hex(), false)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	require.NoError(t, svc.Delete(ctx, cust.ID.Hex()))
	_, err = svc.Get(ctx, cust.ID.Hex())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUserUpdate_CannotDeactivateAdmin(t *testing.T) {
	ctx := context.Background()
	users, admin, cust := seedUsers()
	svc := NewUserService(users)

	_, err := svc.Update(ctx, admin.ID.Hex(), UserUpdateInput{IsActive: ptr(false)})
	assert.Equal(t, msgAdminNoDisable, message(err))
	stored, err := svc.Get(ctx, admin.ID.Hex())
	require.NoError(t, err)
	assert.True(t, stored.IsActive)

	// promoting and locking in one request is the same thing
	_, err = svc.Update(ctx, cust.ID.Hex(), UserUpdateInput{Role: ptr(auth.RoleAdmin), IsActive: ptr(false)})
	assert.Equal(t, msgAdminNoDisable, message(err))

	got, err := svc.Update(ctx, admin.ID.Hex(), UserUpdateInput{IsActive: ptr(true), Name: ptr("Quản trị viên")})
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.Equal(t, "Quản trị viên", got.Name)
}
