package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/nomfood/storefront/pkg/apperr"
	"github.com/nomfood/storefront/pkg/paginate"
)

func TestProductFilter(t *testing.T) {
	t.Run("defaults to available", func(t *testing.T) {
		d := ProductFilter(ProductQuery{Category: "all"})
		assert.Equal(t, bson.D{{Key: "isAvailable", Value: true}}, d)
	})

	t.Run("explicit unavailable with category", func(t *testing.T) {
		no := false
		d := ProductFilter(ProductQuery{Category: "Cơm", Available: &no})
		assert.Equal(t, bson.D{{Key: "category", Value: "Cơm"}, {Key: "isAvailable", Value: false}}, d)
	})
}

func TestProductSort(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "price", Value: 1}}, ProductSort("price_asc"))
	assert.Equal(t, bson.D{{Key: "soldCount", Value: -1}}, ProductSort("popular"))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, ProductSort("newest"))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, ProductSort("bogus"))
	assert.Equal(t, "rating", ProductSort("rating")[0].Key)
}

func TestProductRepository_Mock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("list pages and counts", func(mt *mtest.T) {
		repo := &ProductRepository{col: mt.Coll}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{{Key: "_id", Value: id}, {Key: "name", Value: "Phở bò"}, {Key: "price", Value: 45000.0}}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(25)}}),
		)

		items, total, err := repo.List(context.Background(), ProductQuery{Page: paginate.New("3", "10", 12)})
		require.NoError(mt, err)
		require.Len(mt, items, 1)
		assert.Equal(mt, "Phở bò", items[0].Name)
		assert.EqualValues(mt, 25, total)
	})

	mt.Run("find missing is not found", func(mt *mtest.T) {
		repo := &ProductRepository{col: mt.Coll}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID())
		assert.True(mt, apperr.IsKind(err, apperr.KindNotFound))
	})

	mt.Run("delete missing is not found", func(mt *mtest.T) {
		repo := &ProductRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}))

		err := repo.Delete(context.Background(), primitive.NewObjectID())
		assert.True(mt, apperr.IsKind(err, apperr.KindNotFound))
	})
}
