package products

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/apperr"
	"storefront/db"
	"storefront/models"
	"storefront/utils"
)

// Store wraps the products collection.
type Store struct {
	col *mongo.Collection
}

func NewStore(d *db.Store) *Store {
	return &Store{col: d.Products}
}

type Filter struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
	Active   *bool
	Search   string
}

func (f Filter) query() bson.M {
	q := bson.M{}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		q["price"] = price
	}
	if f.Active != nil {
		q["isactive"] = *f.Active
	}
	if f.Search != "" {
		regex := primitive.Regex{Pattern: f.Search, Options: "i"}
		q["$or"] = []bson.M{
			{"name": bson.M{"$regex": regex}},
			{"description": bson.M{"$regex": regex}},
		}
	}
	return q
}

func sortOrder(param string) bson.D {
	switch param {
	case "price_asc":
		return bson.D{{Key: "price", Value: 1}}
	case "price_desc":
		return bson.D{{Key: "price", Value: -1}}
	case "name_asc":
		return bson.D{{Key: "name", Value: 1}}
	case "name_desc":
		return bson.D{{Key: "name", Value: -1}}
	case "newest":
		return bson.D{{Key: "created_at", Value: -1}}
	default:
		return bson.D{{Key: "name", Value: 1}}
	}
}

func (s *Store) Create(ctx context.Context, p *models.Product) error {
	_, err := s.col.InsertOne(ctx, p)
	return mapInsertErr(err)
}

// mapInsertErr turns a unique-index violation (user-supplied SKU collision)
// into a validation error instead of leaking a 500.
func mapInsertErr(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return apperr.New(apperr.Validation, "sku already in use").
			WithFields(map[string]string{"sku": "already in use"})
	}
	return err
}

func (s *Store) GetByID(ctx context.Context, productID string) (*models.Product, error) {
	var p models.Product
	err := s.col.FindOne(ctx, bson.M{"productid": productID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.Newf(apperr.NotFound, "product %s not found", productID)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) List(ctx context.Context, f Filter, pg utils.Pagination, sort string) ([]models.Product, int64, error) {
	query := f.query()

	total, err := s.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(sortOrder(sort)).
		SetSkip(pg.Skip()).
		SetLimit(pg.Limit64())

	cursor, err := s.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var items []models.Product
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []models.Product{}
	}
	return items, total, nil
}

// Update applies a partial $set and returns the updated document.
func (s *Store) Update(ctx context.Context, productID string, set bson.M) (*models.Product, error) {
	set["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p models.Product
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"productid": productID},
		bson.M{"$set": set},
		opts,
	).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.Newf(apperr.NotFound, "product %s not found", productID)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SoftDelete deactivates the product; the document is never removed.
func (s *Store) SoftDelete(ctx context.Context, productID string) (*models.Product, error) {
	return s.Update(ctx, productID, bson.M{"isactive": false})
}

// DecrementStock reduces stock by qty only if enough is available. The
// stock guard sits in the update filter so the check and the decrement are
// one document operation.
func (s *Store) DecrementStock(ctx context.Context, productID string, qty int) error {
	if qty < 1 {
		return apperr.New(apperr.Validation, "quantity must be at least 1")
	}
	res, err := s.col.UpdateOne(ctx,
		bson.M{"productid": productID, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}, "$set": bson.M{"updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		p, err := s.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		return apperr.Newf(apperr.InsufficientStock,
			"insufficient stock for %q: %d available, %d requested", p.Name, p.Stock, qty)
	}
	return nil
}

// IncrementStock adds stock back unconditionally (restocking, returns).
func (s *Store) IncrementStock(ctx context.Context, productID string, qty int) error {
	if qty < 1 {
		return apperr.New(apperr.Validation, "quantity must be at least 1")
	}
	res, err := s.col.UpdateOne(ctx,
		bson.M{"productid": productID},
		bson.M{"$inc": bson.M{"stock": qty}, "$set": bson.M{"updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.Newf(apperr.NotFound, "product %s not found", productID)
	}
	return nil
}
