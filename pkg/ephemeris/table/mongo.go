package table

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/sidereal/pkg/ephemeris"
)

// MongoOptions locates the ephemeris collection.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore is a Store backed by a MongoDB collection with a unique
// (body, jd) index.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Connect opens the collection, pings the primary and ensures the index.
func Connect(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	s := &MongoStore{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
	}
	_, err = s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "body", Value: 1}, {Key: "jd", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("body_jd"),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo: create index: %w", err)
	}
	return s, nil
}

// Day implements Store.
func (s *MongoStore) Day(ctx context.Context, body ephemeris.Body, jd float64) (Row, error) {
	var r Row
	err := s.coll.FindOne(ctx, bson.D{{Key: "body", Value: body.String()}, {Key: "jd", Value: jd}}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Row{}, ErrMissingRow
	}
	if err != nil {
		return Row{}, fmt.Errorf("mongo: find %s at %.1f: %w", body, jd, err)
	}
	return r, nil
}

// Upsert implements Store with one unordered bulk write.
func (s *MongoStore) Upsert(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, len(rows))
	for i, r := range rows {
		models[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "body", Value: r.Body}, {Key: "jd", Value: r.JD}}).
			SetReplacement(r).
			SetUpsert(true)
	}
	if _, err := s.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("mongo: bulk upsert: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
