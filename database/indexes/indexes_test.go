package indexes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/nomfood/storefront/app/repositories"
)

func TestAll_UniqueConstraints(t *testing.T) {
	uniques := map[string][]string{}
	for _, s := range All() {
		for _, m := range s.Models {
			if m.Options != nil && m.Options.Unique != nil && *m.Options.Unique {
				uniques[s.Collection] = append(uniques[s.Collection], *m.Options.Name)
			}
		}
	}

	assert.Equal(t, []string{"email_unique"}, uniques[repositories.UsersCollection])
	assert.Equal(t, []string{"order_number_unique"}, uniques[repositories.OrdersCollection])
	assert.Equal(t, []string{"user_product_unique"}, uniques[repositories.ReviewsCollection])
	assert.Empty(t, uniques[repositories.ProductsCollection])
}

func TestSync(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates each collection's set", func(mt *mtest.T) {
		specs := All()[:2]
		for range specs {
			mt.AddMockResponses(mtest.CreateSuccessResponse())
		}
		require.NoError(mt, Sync(context.Background(), mt.DB, specs))
	})

	mt.Run("stops at the first failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 85, Message: "IndexOptionsConflict"}))

		err := Sync(context.Background(), mt.DB, All())
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), repositories.UsersCollection)
	})
}
