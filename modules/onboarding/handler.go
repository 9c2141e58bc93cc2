package onboarding

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/storekit/modules/user"
	"github.com/dmitrymomot/storekit/pkg/validator"
)

// Handler exposes the signup endpoint.
type Handler struct {
	svc *Service
}

// NewHandler creates an HTTP handler around the onboarding service.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Router mounts the onboarding routes.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/signup", h.signup)
	return r
}

type errorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.svc.CreateTenantWithManager(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var verr validator.ValidationErrors
	switch {
	case errors.As(err, &verr):
		fields := make(map[string][]string, len(verr.Fields()))
		for _, f := range verr.Fields() {
			fields[f] = verr.Get(f)
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Fields: fields})
	case errors.Is(err, ErrSubdomainTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "subdomain already taken"})
	case errors.Is(err, user.ErrEmailAlreadyExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "email already exists"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
