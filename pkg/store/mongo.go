package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/dockspace/pkg/layout"
)

// Defaults for MongoConfig.
const (
	DefaultMongoDatabase   = "dockspace"
	DefaultMongoCollection = "layouts"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps one document per snapshot, keyed by name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoDoc is the stored document. The layout is kept as a string so the
// exact JSON bytes round-trip.
type mongoDoc struct {
	Name      string       `bson:"_id"`
	ID        string       `bson:"snapshot_id"`
	Format    int          `bson:"format"`
	Layout    string       `bson:"layout,omitempty"`
	Stats     layout.Stats `bson:"stats"`
	CreatedAt time.Time    `bson:"created_at"`
	UpdatedAt time.Time    `bson:"updated_at"`
}

func (d *mongoDoc) snapshot() *Snapshot {
	return &Snapshot{
		ID:        d.ID,
		Name:      d.Name,
		Format:    d.Format,
		Layout:    []byte(d.Layout),
		Stats:     d.Stats,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, storageError(err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, storageError(err, "ping mongo")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, name string) (*Snapshot, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, storageError(err, "mongo get %q", name)
	}
	return doc.snapshot(), nil
}

func (s *MongoStore) Put(ctx context.Context, snap *Snapshot) error {
	if err := validate(snap); err != nil {
		return err
	}
	rec := prepare(snap, nil)

	// $setOnInsert keeps the identity and creation time of an existing
	// document, matching what prepare does for the other backends.
	update := bson.M{
		"$set": bson.M{
			"format":     rec.Format,
			"layout":     string(rec.Layout),
			"stats":      rec.Stats,
			"updated_at": rec.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"snapshot_id": rec.ID,
			"created_at":  rec.CreatedAt,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetProjection(bson.M{"layout": 0})
	var doc mongoDoc
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": rec.Name}, update, opts).Decode(&doc)
	if err != nil {
		return storageError(err, "mongo put %q", snap.Name)
	}
	stamp(snap, doc.snapshot())
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return storageError(err, "mongo delete %q", name)
	}
	if res.DeletedCount == 0 {
		return notFound(name)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"layout": 0})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, storageError(err, "mongo list")
	}
	var docs []mongoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storageError(err, "mongo list")
	}
	out := make([]Summary, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].snapshot().Summary())
	}
	return out, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
