package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
	"github.com/matzehuels/flowglyph/pkg/errors"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "flowglyph"
	DefaultMongoCollection = "sequences"
	DefaultMongoTimeout    = 10 * time.Second
)

// MongoOptions configures a MongoStore.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// MongoStore keeps sequences in a MongoDB collection, one document per
// sequence keyed by its id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoDoc struct {
	ID        string              `bson:"_id"`
	Word      string              `bson:"word,omitempty"`
	Author    string              `bson:"author,omitempty"`
	BeatCount int                 `bson:"beat_count"`
	UpdatedAt time.Time           `bson:"updated_at"`
	Sequence  pictograph.Sequence `bson:"sequence"`
}

// NewMongoStore connects to opts.URI, verifies the connection with a ping
// and ensures the listing index exists.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo store requires a URI")
	}
	if opts.Database == "" {
		opts.Database = DefaultMongoDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultMongoCollection
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultMongoTimeout
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(opts.URI).
		SetServerSelectionTimeout(opts.Timeout).
		SetConnectTimeout(opts.Timeout))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo")
	}

	pingCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongo")
	}

	s := NewMongoStoreFromCollection(client.Database(opts.Database).Collection(opts.Collection))
	s.client = client
	if _, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "updated_at", Value: -1}},
	}); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create mongo index")
	}
	return s, nil
}

// NewMongoStoreFromCollection wraps an existing collection. Close does not
// disconnect the collection's client.
func NewMongoStoreFromCollection(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Put(ctx context.Context, seq pictograph.Sequence) (string, error) {
	seq, err := prepare(seq)
	if err != nil {
		return "", err
	}
	doc := mongoDoc{
		ID:        seq.ID,
		Word:      seq.Word,
		Author:    seq.Author,
		BeatCount: len(seq.Beats),
		UpdatedAt: time.Now().UTC(),
		Sequence:  seq,
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": seq.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "save sequence %s", seq.ID)
	}
	return seq.ID, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (pictograph.Sequence, error) {
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return pictograph.Sequence{}, ErrNotFound
	}
	if err != nil {
		return pictograph.Sequence{}, errors.Wrap(errors.ErrCodeInternal, err, "load sequence %s", id)
	}
	doc.Sequence.ID = doc.ID
	return doc.Sequence, nil
}

func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().
		SetProjection(bson.M{"sequence": 0}).
		SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list sequences")
	}
	out := []Summary{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode sequence list")
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete sequence %s", id)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
