package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nomfood/storefront/pkg/apperr"
)

func TestFilter_SkipsZeroValues(t *testing.T) {
	f := NewFilter().Eq("category", "").EqInt("rating", 0).Bool("isAvailable", nil).
		Search("  ", "name").Range("price", nil, nil).Since("createdAt", time.Time{})
	assert.Empty(t, f.Doc())
}

func TestFilter_Combines(t *testing.T) {
	yes := true
	min, max := 10000.0, 50000.0
	f := NewFilter().
		Eq("category", "Phở").
		Bool("isAvailable", &yes).
		Search("bò (tái)", "name", "description").
		Range("price", &min, &max)

	d := f.Doc()
	assert.Len(t, d, 4)
	assert.Equal(t, bson.E{Key: "category", Value: "Phở"}, d[0])
	assert.Equal(t, bson.E{Key: "isAvailable", Value: true}, d[1])

	or := d[2]
	assert.Equal(t, "$or", or.Key)
	clauses := or.Value.(bson.A)
	assert.Len(t, clauses, 2)
	rx := clauses[0].(bson.D)[0].Value.(primitive.Regex)
	assert.Equal(t, `bò \(tái\)`, rx.Pattern)
	assert.Equal(t, "i", rx.Options)

	assert.Equal(t, bson.E{Key: "price", Value: bson.D{{Key: "$gte", Value: min}, {Key: "$lte", Value: max}}}, d[3])
}

func TestFilter_SingleFieldSearchHasNoOr(t *testing.T) {
	d := NewFilter().Search("ngon", "comment").Doc()
	assert.Equal(t, "comment", d[0].Key)
}

func TestParseID(t *testing.T) {
	id := primitive.NewObjectID()
	got, err := ParseID(id.Hex(), "x")
	assert.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseID("bad", "Không tìm thấy")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
