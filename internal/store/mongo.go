// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps each collection in a MongoDB collection of the same name.
// Document ids are stored as hex strings in _id.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// OpenMongo connects to MongoDB and verifies the connection.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	opts := options.Client().ApplyURI(uri).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetConnectTimeout(5 * time.Second).
		SetSocketTimeout(10 * time.Second)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, 2*time.Second)
	defer cancelPing()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	return &MongoStore{client: client, db: client.Database(database)}, nil
}

// Get implements Store.
func (s *MongoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("get", collection, err)
	}
	return fromBSON(raw), nil
}

// QueryByField implements Store.
func (s *MongoStore) QueryByField(ctx context.Context, collection, field string, value any, limit int) ([]Document, error) {
	if err := checkName(field); err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	docs, err := s.find(ctx, collection, bson.M{field: value}, opts)
	return docs, wrapErr("query", collection, err)
}

// ListAll implements Store.
func (s *MongoStore) ListAll(ctx context.Context, collection string, order Order) ([]Document, error) {
	opts := options.Find()
	if order.Field != "" {
		if err := checkName(order.Field); err != nil {
			return nil, err
		}
		dir := 1
		if order.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: order.Field, Value: dir}, {Key: "_id", Value: dir}})
	}
	if order.Limit > 0 {
		opts.SetLimit(int64(order.Limit))
	}
	docs, err := s.find(ctx, collection, bson.M{}, opts)
	return docs, wrapErr("list", collection, err)
}

// Add implements Store.
func (s *MongoStore) Add(ctx context.Context, collection string, data Document) (string, error) {
	body := withoutID(data)
	if err := checkDocument(body); err != nil {
		return "", err
	}
	id := primitive.NewObjectID().Hex()
	doc := bson.M{"_id": id}
	for k, v := range body {
		doc[k] = v
	}
	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return "", wrapErr("add", collection, err)
	}
	return id, nil
}

// Update implements Store.
func (s *MongoStore) Update(ctx context.Context, collection, id string, data Document) error {
	body := withoutID(data)
	if err := checkDocument(body); err != nil {
		return err
	}
	set := bson.M{}
	for k, v := range body {
		set[k] = v
	}
	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return wrapErr("update", collection, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

// Delete implements Store.
func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	return wrapErr("delete", collection, err)
}

// Ping implements Store.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close implements Store.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) find(ctx context.Context, collection string, filter bson.M, opts *options.FindOptions) ([]Document, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, fromBSON(m))
	}
	return docs, nil
}

// fromBSON converts a decoded BSON document into plain Go values.
func fromBSON(m bson.M) Document {
	doc := make(Document, len(m))
	for k, v := range m {
		if k == "_id" {
			doc[IDField] = fmt.Sprint(v)
			continue
		}
		doc[k] = bsonValue(v)
	}
	return doc
}

func bsonValue(v any) any {
	switch x := v.(type) {
	case primitive.DateTime:
		return x.Time().UTC()
	case primitive.ObjectID:
		return x.Hex()
	case bson.M:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = bsonValue(e)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(x))
		for _, e := range x {
			out[e.Key] = bsonValue(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = bsonValue(e)
		}
		return out
	default:
		return v
	}
}
