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

// AdminHandler serves the /api/admin/orders surface. Routing already wraps
// these in RequireAdmin; the handlers still use the actor for audit entries.
type AdminHandler struct {
	store *Store
}

func NewAdminHandler(store *Store) *AdminHandler {
	return &AdminHandler{store: store}
}

// ListOrders lists across all users with status, user and date filters.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	q := r.URL.Query()
	f := ListFilter{UserID: q.Get("userId")}
	if s := q.Get("status"); s != "" {
		status := models.OrderStatus(s)
		if !ValidStatus(status) {
			utils.SendError(w, apperr.Newf(apperr.Validation, "unknown order status %q", s))
			return
		}
		f.Status = status
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.SendError(w, apperr.New(apperr.Validation, "from must be RFC3339"))
			return
		}
		f.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.SendError(w, apperr.New(apperr.Validation, "to must be RFC3339"))
			return
		}
		f.To = &t
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

// GetOrder returns any order without an ownership check.
func (h *AdminHandler) GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	o, err := h.store.GetByID(ctx, ps.ByName("id"))
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendSuccess(w, http.StatusOK, "", o)
}

// UpdateStatus applies any legal transition on behalf of an admin.
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

// CancelOrder is the admin DELETE: orders are never removed, only moved to
// cancelled. Terminal orders reject the transition.
func (h *AdminHandler) CancelOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	o, err := h.store.GetByID(ctx, ps.ByName("id"))
	if err != nil {
		utils.SendError(w, err)
		return
	}

	actor, _ := middleware.ActorFrom(r.Context())
	if err := Transition(o, models.OrderCancelled, actor.UserID, "cancelled by admin"); err != nil {
		utils.SendError(w, err)
		return
	}
	if err := h.store.Update(ctx, o); err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendSuccess(w, http.StatusOK, "Order cancelled", o)
}

// GetStatistics serves GET /api/admin/orders/statistics/overview. The route
// is registered as /:id/overview with the literal enforced here, same
// workaround as the user-facing stats route.
func (h *AdminHandler) GetStatistics(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName("id") != "statistics" {
		utils.SendError(w, apperr.New(apperr.NotFound, "not found"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	stats, err := h.store.Stats(ctx, "")
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendSuccess(w, http.StatusOK, "", stats)
}
