package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"storefront/apperr"
	"storefront/middleware"
	"storefront/products"
	"storefront/utils"
)

type Handler struct {
	carts   *Store
	catalog *products.Store
}

func NewHandler(carts *Store, catalog *products.Store) *Handler {
	return &Handler{carts: carts, catalog: catalog}
}

// GetCart returns the caller's cart, creating it on first access.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, _ := middleware.ActorFrom(r.Context())
	c, err := h.carts.GetOrCreate(ctx, actor.UserID)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendSuccess(w, http.StatusOK, "", c)
}

// GetCount returns just the derived totalItems, for badge rendering.
func (h *Handler) GetCount(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, _ := middleware.ActorFrom(r.Context())
	c, err := h.carts.GetOrCreate(ctx, actor.UserID)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendSuccess(w, http.StatusOK, "", utils.M{"count": c.TotalItems})
}

type addItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// AddItem merges the product into the cart at its current price.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendError(w, apperr.New(apperr.Validation, "invalid JSON payload"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.SendError(w, err)
		return
	}

	actor, _ := middleware.ActorFrom(r.Context())

	p, err := h.catalog.GetByID(ctx, req.ProductID)
	if err != nil {
		utils.SendError(w, err)
		return
	}

	c, err := h.carts.GetOrCreate(ctx, actor.UserID)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	if err := c.AddItem(p, req.Quantity); err != nil {
		utils.SendError(w, err)
		return
	}
	if err := h.carts.Save(ctx, c); err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendSuccess(w, http.StatusOK, "Item added to cart", c)
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem sets the quantity of an existing line; zero or less removes
// it. The line's price snapshot refreshes to the product's current price.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendError(w, apperr.New(apperr.Validation, "invalid JSON payload"))
		return
	}

	actor, _ := middleware.ActorFrom(r.Context())

	p, err := h.catalog.GetByID(ctx, ps.ByName("productId"))
	if err != nil {
		utils.SendError(w, err)
		return
	}

	c, err := h.carts.GetOrCreate(ctx, actor.UserID)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	if err := c.SetItemQuantity(p, req.Quantity); err != nil {
		utils.SendError(w, err)
		return
	}
	if err := h.carts.Save(ctx, c); err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendSuccess(w, http.StatusOK, "Cart updated", c)
}

// RemoveItem drops the line; removing an absent product is a no-op.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, _ := middleware.ActorFrom(r.Context())

	c, err := h.carts.GetOrCreate(ctx, actor.UserID)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	c.RemoveItem(ps.ByName("productId"))
	if err := h.carts.Save(ctx, c); err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendSuccess(w, http.StatusOK, "Item removed", c)
}

// ClearCart empties all lines; the cart document persists.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, _ := middleware.ActorFrom(r.Context())

	c, err := h.carts.GetOrCreate(ctx, actor.UserID)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	c.Clear()
	if err := h.carts.Save(ctx, c); err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendSuccess(w, http.StatusOK, "Cart cleared", c)
}
