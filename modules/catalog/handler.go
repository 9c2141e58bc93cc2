package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/storekit/pkg/jwt"
	"github.com/dmitrymomot/storekit/pkg/slug"
	"github.com/dmitrymomot/storekit/pkg/tenant"
)

// Handler exposes the tenant-scoped catalog API. The tenant scope comes from
// the request context, so the same routes serve every store.
type Handler struct {
	repo Repository
}

// NewHandler creates an HTTP handler around a catalog repository.
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// Router mounts the catalog routes.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
		r.Get("/{id}", h.getProduct)
		r.Put("/{id}", h.updateProduct)
		r.Post("/{id}/stock", h.adjustStock)
		r.Get("/{id}/movements", h.listMovements)
	})
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.listCategories)
		r.Post("/", h.createCategory)
	})

	return r
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	f := ProductFilter{ActiveOnly: r.URL.Query().Get("active") == "true"}
	if id, err := uuid.Parse(r.URL.Query().Get("category_id")); err == nil {
		f.CategoryID = id
	}
	f.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	f.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))

	products, err := h.repo.ListProducts(r.Context(), f)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var p Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if p.Slug == "" {
		p.Slug = slug.Make(p.Name)
	}
	if err := h.repo.CreateProduct(r.Context(), &p); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, &p)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid product id"})
		return
	}
	p, err := h.repo.GetProduct(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid product id"})
		return
	}
	var p Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	p.ID = id
	if err := h.repo.UpdateProduct(r.Context(), &p); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &p)
}

type adjustStockRequest struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid product id"})
		return
	}
	var req adjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if req.Reason == "" {
		req.Reason = ReasonAdjustment
	}

	var actor *uuid.UUID
	var claims jwt.TenantClaims
	if err := jwt.GetClaimsAs(r.Context(), &claims); err == nil {
		if id, err := uuid.Parse(claims.Subject); err == nil {
			actor = &id
		}
	}

	movement, err := h.repo.AdjustStock(r.Context(), id, req.Delta, req.Reason, actor)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movement)
}

func (h *Handler) listMovements(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid product id"})
		return
	}
	movements, err := h.repo.ListStockMovements(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movements)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.ListCategories(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var c Category
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	if err := h.repo.CreateCategory(r.Context(), &c); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, &c)
}

type errorBody struct {
	Error string `json:"error"`
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var conflict *ConflictError
	var insufficient *InsufficientStockError
	switch {
	case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrCategoryNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, tenant.ErrTenantRequired):
		writeJSON(w, http.StatusForbidden, errorBody{Error: "tenant scope required"})
	case errors.Is(err, tenant.ErrTenantMismatch), errors.Is(err, tenant.ErrMixedTenantBatch):
		writeJSON(w, http.StatusForbidden, errorBody{Error: err.Error()})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorBody{Error: conflict.Error()})
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: insufficient.Error()})
	case errors.Is(err, ErrInventoryNotTracked):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
