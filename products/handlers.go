package products

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"

	"storefront/apperr"
	"storefront/middleware"
	"storefront/models"
	"storefront/utils"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

type createProductRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" validate:"required,oneof=electronics clothing books home sports toys other"`
	Stock       int     `json:"stock" validate:"gte=0"`
	SKU         string  `json:"sku"`
	IsActive    *bool   `json:"isActive"`
}

// CreateProduct registers a new catalog entry owned by the caller.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, _ := middleware.ActorFrom(r.Context())

	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendError(w, apperr.New(apperr.Validation, "invalid JSON payload"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.SendError(w, err)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	sku := req.SKU
	if sku == "" {
		sku = utils.NewSKU()
	}

	now := time.Now()
	p := &models.Product{
		ProductID:   "p" + utils.GenerateRandomString(10),
		Name:        req.Name,
		Description: req.Description,
		Price:       utils.Round2(req.Price),
		Category:    req.Category,
		Stock:       req.Stock,
		IsActive:    active,
		SKU:         sku,
		CreatedBy:   actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.store.Create(ctx, p); err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendSuccess(w, http.StatusCreated, "Product created", p)
}

// GetProduct returns one product, inactive ones included.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	p, err := h.store.GetByID(ctx, ps.ByName("id"))
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendSuccess(w, http.StatusOK, "", p)
}

// ListProducts supports category/price/active filters, full-text search over
// name+description, sorting and pagination.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	h.list(ctx, w, r, r.URL.Query().Get("category"))
}

// ListByCategory serves GET /api/products/category/:category. httprouter
// cannot mix a static "category" segment with the :id wildcard, so the
// route is registered as /:id/:category and the literal is enforced here.
func (h *Handler) ListByCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName("id") != "category" {
		utils.SendError(w, apperr.New(apperr.NotFound, "not found"))
		return
	}
	category := ps.ByName("category")
	if !models.ValidCategory(category) {
		utils.SendError(w, apperr.Newf(apperr.Validation, "unknown category %q", category))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	h.list(ctx, w, r, category)
}

func (h *Handler) list(ctx context.Context, w http.ResponseWriter, r *http.Request, category string) {
	q := r.URL.Query()

	if category != "" && !models.ValidCategory(category) {
		utils.SendError(w, apperr.Newf(apperr.Validation, "unknown category %q", category))
		return
	}

	f := Filter{
		Category: category,
		Search:   q.Get("search"),
	}
	if v := q.Get("minPrice"); v != "" {
		if min, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinPrice = &min
		}
	}
	if v := q.Get("maxPrice"); v != "" {
		if max, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = &max
		}
	}
	if v := q.Get("active"); v != "" {
		active := v == "true"
		f.Active = &active
	}

	pg := utils.ParsePagination(r)
	items, total, err := h.store.List(ctx, f, pg, q.Get("sort"))
	if err != nil {
		utils.SendError(w, err)
		return
	}

	utils.SendSuccess(w, http.StatusOK, "", utils.M{
		"products":   items,
		"pagination": utils.NewPageMeta(pg, total),
	})
}

type updateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=2,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Category    *string  `json:"category" validate:"omitempty,oneof=electronics clothing books home sports toys other"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	IsActive    *bool    `json:"isActive"`
}

// UpdateProduct applies a partial edit. Only an admin or the product's
// creator may edit.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	p, err := h.store.GetByID(ctx, ps.ByName("id"))
	if err != nil {
		utils.SendError(w, err)
		return
	}

	actor, _ := middleware.ActorFrom(r.Context())
	if !middleware.Allow(actor, p.CreatedBy, middleware.Owner) {
		utils.SendError(w, apperr.New(apperr.Forbidden, "only the product owner or an admin may edit it"))
		return
	}

	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendError(w, apperr.New(apperr.Validation, "invalid JSON payload"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.SendError(w, err)
		return
	}

	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Price != nil {
		set["price"] = utils.Round2(*req.Price)
	}
	if req.Category != nil {
		set["category"] = *req.Category
	}
	if req.Stock != nil {
		set["stock"] = *req.Stock
	}
	if req.IsActive != nil {
		set["isactive"] = *req.IsActive
	}
	if len(set) == 0 {
		utils.SendError(w, apperr.New(apperr.Validation, "no fields to update"))
		return
	}

	updated, err := h.store.Update(ctx, p.ProductID, set)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendSuccess(w, http.StatusOK, "Product updated", updated)
}

// DeleteProduct soft-deletes: it flips isActive off and keeps the record
// fetchable.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	p, err := h.store.GetByID(ctx, ps.ByName("id"))
	if err != nil {
		utils.SendError(w, err)
		return
	}

	actor, _ := middleware.ActorFrom(r.Context())
	if !middleware.Allow(actor, p.CreatedBy, middleware.Owner) {
		utils.SendError(w, apperr.New(apperr.Forbidden, "only the product owner or an admin may delete it"))
		return
	}

	deleted, err := h.store.SoftDelete(ctx, p.ProductID)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendSuccess(w, http.StatusOK, "Product deactivated", deleted)
}
