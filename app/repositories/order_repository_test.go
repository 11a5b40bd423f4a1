package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/nomfood/storefront/app/models"
	"github.com/nomfood/storefront/pkg/apperr"
	"github.com/nomfood/storefront/pkg/paginate"
)

func TestOrderListPipeline(t *testing.T) {
	p := OrderListPipeline(OrderQuery{Status: "pending", Search: "090", Page: paginate.New("2", "10", 10)})
	require.Len(t, p, 6)

	match := p[0][0].Value.(bson.D)
	assert.Equal(t, bson.E{Key: "status", Value: "pending"}, match[0])
	assert.Equal(t, "$or", match[1].Key)
	assert.Len(t, match[1].Value.(bson.A), 3)

	assert.Equal(t, "$skip", p[2][0].Key)
	assert.EqualValues(t, 10, p[2][0].Value)
}

func TestOrderRepository_Transition(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	entry := models.StatusChange{Status: models.StatusConfirmed, UpdatedAt: time.Now()}

	mt.Run("applied", func(mt *mtest.T) {
		repo := &OrderRepository{col: mt.Coll}
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "status", Value: models.StatusConfirmed},
			{Key: "statusHistory", Value: bson.A{bson.D{{Key: "status", Value: models.StatusConfirmed}}}},
		}}))

		o, err := repo.Transition(context.Background(), id, models.StatusPending, bson.D{{Key: "status", Value: models.StatusConfirmed}}, entry)
		require.NoError(mt, err)
		assert.Equal(mt, models.StatusConfirmed, o.Status)
		assert.Len(mt, o.StatusHistory, 1)
	})

	mt.Run("status moved underneath", func(mt *mtest.T) {
		repo := &OrderRepository{col: mt.Coll}
		id := primitive.NewObjectID()
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "_id", Value: id}, {Key: "status", Value: models.StatusCancelled}}),
		)

		_, err := repo.Transition(context.Background(), id, models.StatusPending, bson.D{{Key: "status", Value: models.StatusConfirmed}}, entry)
		assert.True(mt, apperr.IsKind(err, apperr.KindInvalidState))
	})
}
