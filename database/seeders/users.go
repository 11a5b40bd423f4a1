package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nomfood/storefront/app/models"
	"github.com/nomfood/storefront/app/repositories"
	"github.com/nomfood/storefront/pkg/auth"
	"github.com/nomfood/storefront/pkg/logger"
)

func init() {
	Register("users", SeedUsers)
}

type demoUser struct {
	name, email, password, role, phone string
	address                            models.Address
}

var demoUsers = []demoUser{
	{name: "Administrator", email: "admin@nomfood.vn", password: "admin123", role: auth.RoleAdmin, phone: "0123456789"},
	{name: "Staff User", email: "staff@nomfood.vn", password: "staff123", role: auth.RoleStaff, phone: "0987654321"},
	{
		name:     "Nguyễn Văn A",
		email:    "user@nomfood.vn",
		password: "user123",
		role:     auth.RoleUser,
		phone:    "0111222333",
		address:  models.Address{Street: "123 Nguyễn Huệ", Ward: "Phường Bến Nghé", District: "Quận 1", City: "TP.HCM"},
	},
}

// SeedUsers creates one account per role.
func SeedUsers(ctx context.Context, db *mongo.Database) error {
	now := time.Now().UTC()
	docs := make([]bson.D, 0, len(demoUsers))
	for _, u := range demoUsers {
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return err
		}
		docs = append(docs, bson.D{
			{Key: "email", Value: u.email},
			{Key: "name", Value: u.name},
			{Key: "password", Value: hash},
			{Key: "phone", Value: u.phone},
			{Key: "address", Value: u.address},
			{Key: "role", Value: u.role},
			{Key: "isActive", Value: true},
			{Key: "avatar", Value: models.DefaultAvatar},
			{Key: "createdAt", Value: now},
			{Key: "updatedAt", Value: now},
		})
	}

	n, err := insertMissing(ctx, db.Collection(repositories.UsersCollection), "email", docs)
	if err != nil {
		return err
	}
	logger.Info("users seeded", "inserted", n, "total", len(docs))
	return nil
}
