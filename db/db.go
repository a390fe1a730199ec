package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/config"
)

// Store holds the Mongo client and the collection handles the application
// uses. It is constructed once at startup and injected into the components
// that need it; Close is called on shutdown.
type Store struct {
	Client   *mongo.Client
	Users    *mongo.Collection
	Products *mongo.Collection
	Carts    *mongo.Collection
	Orders   *mongo.Collection
}

func Connect(ctx context.Context, cfg config.Config) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, err
	}

	database := client.Database(cfg.MongoDB)
	s := &Store{
		Client:   client,
		Users:    database.Collection("users"),
		Products: database.Collection("products"),
		Carts:    database.Collection("carts"),
		Orders:   database.Collection("orders"),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	_, err := s.Users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userid", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
	})
	if err != nil {
		return err
	}

	_, err = s.Products.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "productid", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "sku", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	})
	if err != nil {
		return err
	}

	// One cart per user.
	_, err = s.Carts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userid", Value: 1}}, Options: unique,
	})
	if err != nil {
		return err
	}

	_, err = s.Orders.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "orderid", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "ordernumber", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "userid", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	return err
}
