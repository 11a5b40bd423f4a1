package seeders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func upserted() bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: 1},
		bson.E{Key: "nModified", Value: 0},
		bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: primitive.NewObjectID()}}}},
	)
}

func matched() bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 0})
}

func TestRegistry(t *testing.T) {
	assert.ElementsMatch(t, []string{"users", "products", "banners", "counters"}, Names())
}

func TestInsertMissing(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("counts only new documents", func(mt *mtest.T) {
		mt.AddMockResponses(upserted(), matched(), upserted())
		docs := []bson.D{
			{{Key: "name", Value: "a"}},
			{{Key: "name", Value: "b"}},
			{{Key: "name", Value: "c"}},
		}

		n, err := insertMissing(context.Background(), mt.Coll, "name", docs)
		require.NoError(mt, err)
		assert.Equal(mt, 2, n)
	})

	mt.Run("stops on error", func(mt *mtest.T) {
		mt.AddMockResponses(upserted(), mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad"}))
		docs := []bson.D{{{Key: "name", Value: "a"}}, {{Key: "name", Value: "b"}}, {{Key: "name", Value: "c"}}}

		n, err := insertMissing(context.Background(), mt.Coll, "name", docs)
		assert.Error(mt, err)
		assert.Equal(mt, 1, n)
	})
}

func TestSeedBanners(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("second run inserts nothing", func(mt *mtest.T) {
		for range demoBanners {
			mt.AddMockResponses(matched())
		}
		require.NoError(mt, SeedBanners(context.Background(), mt.DB))
	})
}

func TestSeedCounters(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("raises the order sequence", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "storefront.orders", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(7)}}),
			matched(),
		)
		require.NoError(mt, SeedCounters(context.Background(), mt.DB))
	})
}

func TestDemoCatalogue(t *testing.T) {
	categories := map[string]bool{}
	for _, p := range demoProducts {
		categories[p.Category] = true
		assert.Positive(t, p.Price, p.Name)
	}
	assert.Len(t, categories, len(demoProducts))

	orders := map[int]bool{}
	for _, b := range demoBanners {
		assert.False(t, orders[b.Order], "duplicate banner order %d", b.Order)
		orders[b.Order] = true
	}
}
