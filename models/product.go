package models

import (
	"encoding/json"
	"time"
)

// Categories a product may belong to.
var ProductCategories = []string{
	"electronics",
	"clothing",
	"books",
	"home",
	"sports",
	"toys",
	"other",
}

func ValidCategory(c string) bool {
	for _, v := range ProductCategories {
		if v == c {
			return true
		}
	}
	return false
}

type Product struct {
	ProductID   string    `json:"productId" bson:"productid"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Price       float64   `json:"price" bson:"price"`
	Category    string    `json:"category" bson:"category"`
	Stock       int       `json:"stock" bson:"stock"`
	IsActive    bool      `json:"isActive" bson:"isactive"`
	SKU         string    `json:"sku" bson:"sku"`
	CreatedBy   string    `json:"createdBy" bson:"createdby"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}

// IsAvailable holds exactly when the product can be bought.
func (p *Product) IsAvailable() bool {
	return p.Stock > 0 && p.IsActive
}

// MarshalJSON adds the derived isAvailable flag to API responses.
func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	return json.Marshal(struct {
		alias
		IsAvailable bool `json:"isAvailable"`
	}{alias(p), p.IsAvailable()})
}
