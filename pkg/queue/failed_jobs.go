package queue

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nomfood/storefront/pkg/logger"
)

// FailedJobsCollection holds jobs that exhausted their retries.
const FailedJobsCollection = "failed_jobs"

// MongoFailedStore keeps failed jobs in MongoDB for inspection and replay.
type MongoFailedStore struct {
	col *mongo.Collection
}

func NewMongoFailedStore(db *mongo.Database) *MongoFailedStore {
	return &MongoFailedStore{col: db.Collection(FailedJobsCollection)}
}

func (s *MongoFailedStore) Save(ctx context.Context, f FailedJob) error {
	_, err := s.col.InsertOne(ctx, f)
	return err
}

// Recent returns the newest failures first.
func (s *MongoFailedStore) Recent(ctx context.Context, limit int64) ([]FailedJob, error) {
	cur, err := s.col.Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "failedAt", Value: -1}}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	var out []FailedJob
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// persistFailed keeps the failure in memory and, when a store is
// configured, in the store. A store error is logged only.
func (m *Manager) persistFailed(f FailedJob) {
	m.mu.Lock()
	m.failed = append(m.failed, f)
	store := m.store
	m.mu.Unlock()

	if store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Save(ctx, f); err != nil {
		logger.Error("queue: persist failed job", "type", f.Type, "error", err)
	}
}
