package orders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/apperr"
	"storefront/db"
	"storefront/models"
	"storefront/utils"
)

// Store wraps the orders collection.
type Store struct {
	col *mongo.Collection
}

func NewStore(d *db.Store) *Store {
	return &Store{col: d.Orders}
}

func (s *Store) Insert(ctx context.Context, o *models.Order) error {
	_, err := s.col.InsertOne(ctx, o)
	return err
}

func (s *Store) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	var o models.Order
	err := s.col.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.Newf(apperr.NotFound, "order %s not found", orderID)
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Update replaces the whole order document so status, history and payment
// fields land together.
func (s *Store) Update(ctx context.Context, o *models.Order) error {
	o.UpdatedAt = time.Now()
	res, err := s.col.ReplaceOne(ctx, bson.M{"orderid": o.OrderID}, o)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.Newf(apperr.NotFound, "order %s not found", o.OrderID)
	}
	return nil
}

type ListFilter struct {
	UserID string
	Status models.OrderStatus
	From   *time.Time
	To     *time.Time
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	if f.UserID != "" {
		q["userid"] = f.UserID
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.From != nil || f.To != nil {
		created := bson.M{}
		if f.From != nil {
			created["$gte"] = *f.From
		}
		if f.To != nil {
			created["$lte"] = *f.To
		}
		q["created_at"] = created
	}
	return q
}

func listSort(param string) bson.D {
	switch param {
	case "oldest":
		return bson.D{{Key: "created_at", Value: 1}}
	case "total_asc":
		return bson.D{{Key: "total", Value: 1}}
	case "total_desc":
		return bson.D{{Key: "total", Value: -1}}
	case "status":
		return bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}

func (s *Store) List(ctx context.Context, f ListFilter, pg utils.Pagination, sort string) ([]models.Order, int64, error) {
	query := f.query()

	total, err := s.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(listSort(sort)).
		SetSkip(pg.Skip()).
		SetLimit(pg.Limit64())

	cursor, err := s.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var items []models.Order
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []models.Order{}
	}
	return items, total, nil
}

// StatusCount is one bucket of the status breakdown.
type StatusCount struct {
	Status models.OrderStatus `json:"status" bson:"_id"`
	Count  int64              `json:"count" bson:"count"`
}

// Statistics is the admin overview aggregate.
type Statistics struct {
	ByStatus        []StatusCount `json:"byStatus"`
	TotalOrders     int64         `json:"totalOrders"`
	TotalRevenue    float64       `json:"totalRevenue"`
	AverageRevenue  float64       `json:"averageRevenue"`
	OrdersToday     int64         `json:"ordersToday"`
	OrdersThisMonth int64         `json:"ordersThisMonth"`
	OrdersThisYear  int64         `json:"ordersThisYear"`
}

// Stats aggregates counts by status and revenue over paid orders, plus
// today/month/year order counts.
func (s *Store) Stats(ctx context.Context, userID string) (*Statistics, error) {
	match := bson.M{}
	if userID != "" {
		match["userid"] = userID
	}

	cursor, err := s.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	})
	if err != nil {
		return nil, err
	}
	var byStatus []StatusCount
	if err := cursor.All(ctx, &byStatus); err != nil {
		return nil, err
	}
	if byStatus == nil {
		byStatus = []StatusCount{}
	}

	stats := &Statistics{ByStatus: byStatus}
	for _, b := range byStatus {
		stats.TotalOrders += b.Count
	}

	paidMatch := bson.M{"paymentstatus": models.PaymentPaid}
	if userID != "" {
		paidMatch["userid"] = userID
	}
	revCursor, err := s.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: paidMatch}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$total"},
			"avg":   bson.M{"$avg": "$total"},
		}}},
	})
	if err != nil {
		return nil, err
	}
	var rev []struct {
		Total float64 `bson:"total"`
		Avg   float64 `bson:"avg"`
	}
	if err := revCursor.All(ctx, &rev); err != nil {
		return nil, err
	}
	if len(rev) > 0 {
		stats.TotalRevenue = utils.Round2(rev[0].Total)
		stats.AverageRevenue = utils.Round2(rev[0].Avg)
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())

	for _, rng := range []struct {
		since time.Time
		dst   *int64
	}{
		{dayStart, &stats.OrdersToday},
		{monthStart, &stats.OrdersThisMonth},
		{yearStart, &stats.OrdersThisYear},
	} {
		q := bson.M{"created_at": bson.M{"$gte": rng.since}}
		if userID != "" {
			q["userid"] = userID
		}
		count, err := s.col.CountDocuments(ctx, q)
		if err != nil {
			return nil, err
		}
		*rng.dst = count
	}

	return stats, nil
}
