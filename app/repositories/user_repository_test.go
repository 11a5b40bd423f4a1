package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/nomfood/storefront/app/models"
	"github.com/nomfood/storefront/pkg/apperr"
)

func TestUserFilter(t *testing.T) {
	d := UserFilter(UserQuery{Role: "staff", Status: "inactive"})
	assert.Equal(t, bson.D{{Key: "role", Value: "staff"}, {Key: "isActive", Value: false}}, d)

	d = UserFilter(UserQuery{Status: "whatever", Search: "lan"})
	assert.Len(t, d, 1)
	assert.Equal(t, "$or", d[0].Key)
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate key maps to Duplicate", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: `E11000 duplicate key error collection: nomfood.users index: email_1 dup key: { email: "lan@nomfood.vn" }`,
		}))

		err := repo.Create(context.Background(), &models.User{Email: "Lan@NomFood.vn"})
		var ae *apperr.Error
		assert.ErrorAs(mt, err, &ae)
		assert.Equal(mt, apperr.KindDuplicate, ae.Kind)
		assert.Equal(mt, "email", ae.Field)
	})
}
