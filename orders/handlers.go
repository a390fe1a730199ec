package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"storefront/apperr"
	"storefront/middleware"
	"storefront/models"
	"storefront/utils"
)

type Handler struct {
	store    *Store
	checkout *CheckoutService
}

func NewHandler(store *Store, checkout *CheckoutService) *Handler {
	return &Handler{store: store, checkout: checkout}
}

type shippingAddressRequest struct {
	FullName   string `json:"fullName" validate:"required,min=2,max=100"`
	Line1      string `json:"line1" validate:"required,min=3,max=200"`
	Line2      string `json:"line2" validate:"max=200"`
	City       string `json:"city" validate:"required,min=2,max=100"`
	State      string `json:"state" validate:"required,min=2,max=100"`
	PostalCode string `json:"postalCode" validate:"required,min=3,max=20"`
	Country    string `json:"country" validate:"required,min=2,max=100"`
	Phone      string `json:"phone" validate:"max=30"`
}

type checkoutRequest struct {
	ShippingAddress shippingAddressRequest `json:"shippingAddress" validate:"required"`
	PaymentMethod   string                 `json:"paymentMethod" validate:"required,oneof=card paypal cod"`
	Notes           string                 `json:"notes" validate:"max=500"`
}

// Checkout converts the caller's cart into an order and charges it. A
// declined payment is a completed request with a non-success outcome, so it
// returns the persisted order rather than a bare error.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Checkout budget is wider than the usual 10s: it includes the
	// gateway's simulated latency.
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendError(w, apperr.New(apperr.Validation, "invalid JSON payload"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.SendError(w, err)
		return
	}

	actor, _ := middleware.ActorFrom(r.Context())

	res, err := h.checkout.Checkout(ctx, CheckoutInput{
		UserID: actor.UserID,
		ShippingAddress: models.ShippingAddress{
			FullName:   req.ShippingAddress.FullName,
			Line1:      req.ShippingAddress.Line1,
			Line2:      req.ShippingAddress.Line2,
			City:       req.ShippingAddress.City,
			State:      req.ShippingAddress.State,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
			Phone:      req.ShippingAddress.Phone,
		},
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		utils.SendError(w, err)
		return
	}

	if !res.Payment.Success {
		utils.SendFailure(w, http.StatusBadRequest, "Payment failed: "+res.Payment.Reason, res)
		return
	}
	utils.SendSuccess(w, http.StatusCreated, "Order placed", res)
}

// ListOrders returns the caller's own orders, newest first by default.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, _ := middleware.ActorFrom(r.Context())
	q := r.URL.Query()

	f := ListFilter{UserID: actor.UserID}
	if s := q.Get("status"); s != "" {
		status := models.OrderStatus(s)
		if !ValidStatus(status) {
			utils.SendError(w, apperr.Newf(apperr.Validation, "unknown order status %q", s))
			return
		}
		f.Status = status
	}

	pg := utils.ParsePagination(r)
	items, total, err := h.store.List(ctx, f, pg, q.Get("sort"))
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendSuccess(w, http.StatusOK, "", utils.M{
		"orders":     items,
		"pagination": utils.NewPageMeta(pg, total),
	})
}

// GetOrder returns one order. Non-admins can only see their own.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	o, err := h.store.GetByID(ctx, ps.ByName("id"))
	if err != nil {
		utils.SendError(w, err)
		return
	}

	actor, _ := middleware.ActorFrom(r.Context())
	if !middleware.Allow(actor, o.UserID, middleware.Owner) {
		utils.SendError(w, apperr.New(apperr.Forbidden, "not your order"))
		return
	}
	utils.SendSuccess(w, http.StatusOK, "", o)
}

type statusUpdateRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
	Note   string             `json:"note" validate:"max=500"`
}

// UpdateStatus moves an order along the fulfillment state machine. The
// order's owner may only cancel; every other transition is admin-only.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendError(w, apperr.New(apperr.Validation, "invalid JSON payload"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.SendError(w, err)
		return
	}

	o, err := h.store.GetByID(ctx, ps.ByName("id"))
	if err != nil {
		utils.SendError(w, err)
		return
	}

	actor, _ := middleware.ActorFrom(r.Context())
	if !middleware.Allow(actor, o.UserID, middleware.Owner) {
		utils.SendError(w, apperr.New(apperr.Forbidden, "not your order"))
		return
	}
	if !actor.IsAdmin() && req.Status != models.OrderCancelled {
		utils.SendError(w, apperr.New(apperr.Forbidden, "customers may only cancel their orders"))
		return
	}

	if err := Transition(o, req.Status, actor.UserID, req.Note); err != nil {
		utils.SendError(w, err)
		return
	}
	if err := h.store.Update(ctx, o); err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendSuccess(w, http.StatusOK, "Order status updated", o)
}

// GetStats serves GET /api/orders/stats/summary. httprouter cannot mix the
// static "stats" segment with the :id wildcard, so the route is registered
// as /:id/summary and the literal is enforced here.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName("id") != "stats" {
		utils.SendError(w, apperr.New(apperr.NotFound, "not found"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, _ := middleware.ActorFrom(r.Context())
	stats, err := h.store.Stats(ctx, actor.UserID)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendSuccess(w, http.StatusOK, "", stats)
}
