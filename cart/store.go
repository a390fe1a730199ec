package cart

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/db"
	"storefront/models"
)

// Store wraps the carts collection.
type Store struct {
	col *mongo.Collection
}

func NewStore(d *db.Store) *Store {
	return &Store{col: d.Carts}
}

// GetOrCreate returns the user's cart, creating an empty one on first
// access.
func (s *Store) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	var c models.Cart
	err := s.col.FindOne(ctx, bson.M{"userid": userID}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		c := models.NewCart(userID)
		if _, err := s.col.InsertOne(ctx, c); err != nil {
			return nil, err
		}
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	if c.Lines == nil {
		c.Lines = []models.CartLine{}
	}
	return &c, nil
}

// Save replaces the whole cart document so lines and derived totals land
// together; no intermediate state is observable.
func (s *Store) Save(ctx context.Context, c *models.Cart) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.col.ReplaceOne(ctx, bson.M{"userid": c.UserID}, c, opts)
	return err
}
