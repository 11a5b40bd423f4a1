package logger

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeInserter struct {
	mu   sync.Mutex
	docs []LogDocument
}

func (f *fakeInserter) InsertMany(_ context.Context, docs []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range docs {
		f.docs = append(f.docs, d.(LogDocument))
	}
	return &mongo.InsertManyResult{}, nil
}

func TestMongoHandler_FiltersByLevelAndFlushesOnClose(t *testing.T) {
	col := &fakeInserter{}
	h := newMongoHandler(col, slog.LevelWarn)
	log := slog.New(h).With("request_id", "abc123")

	log.Info("ignored")
	log.Warn("rating recompute failed", "product_id", "p1")
	h.Close()

	require.Len(t, col.docs, 1)
	doc := col.docs[0]
	assert.Equal(t, "rating recompute failed", doc.Msg)
	assert.Equal(t, "WARN", doc.Level)
	assert.Equal(t, "abc123", doc.RequestID)
	assert.Equal(t, "p1", doc.Attrs["product_id"])
}

func TestMongoHandler_GroupsPrefixKeys(t *testing.T) {
	col := &fakeInserter{}
	h := newMongoHandler(col, slog.LevelDebug)
	slog.New(h).WithGroup("order").Error("boom", "id", 7)
	h.Close()

	require.Len(t, col.docs, 1)
	assert.EqualValues(t, 7, col.docs[0].Attrs["order.id"])
}

func TestMultiHandler_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	m := NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	log := slog.New(m)

	log.Info("hello")
	assert.Contains(t, a.String(), "hello")
	assert.Empty(t, b.String())

	log.Error("bad")
	assert.Contains(t, b.String(), "bad")
}

func TestWithCtx_FallsBackToBase(t *testing.T) {
	assert.Same(t, L, WithCtx(context.Background()))

	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := InjectLogger(context.Background(), custom)
	assert.Same(t, custom, WithCtx(ctx))
}
