package history

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fpviz/fpviz/pkg/errors"
)

// Defaults for MongoRecorder.
const (
	DefaultDatabase   = "fpviz"
	DefaultCollection = "runs"
)

// MongoRecorder stores one document per run.
type MongoRecorder struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoRecorder connects to uri and verifies the connection.
func NewMongoRecorder(ctx context.Context, uri, database, collection string) (*MongoRecorder, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongodb")
	}
	return &MongoRecorder{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Record inserts r.
func (m *MongoRecorder) Record(ctx context.Context, r Run) error {
	if _, err := m.coll.InsertOne(ctx, r); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "record run")
	}
	return nil
}

// Recent returns the newest runs first.
func (m *MongoRecorder) Recent(ctx context.Context, limit int) ([]Run, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := m.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list runs")
	}
	var runs []Run
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode runs")
	}
	return runs, nil
}

// Close disconnects the client.
func (m *MongoRecorder) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

var _ Recorder = (*MongoRecorder)(nil)
