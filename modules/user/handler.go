package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/storekit/pkg/jwt"
	"github.com/dmitrymomot/storekit/pkg/tenant"
	"github.com/dmitrymomot/storekit/pkg/validator"
)

// DefaultTokenTTL is how long issued access tokens stay valid.
const DefaultTokenTTL = 24 * time.Hour

// Handler exposes login and registration for the current tenant.
type Handler struct {
	svc      *Service
	jwt      *jwt.Service
	tokenTTL time.Duration
}

// NewHandler creates an HTTP handler around the user service. Tokens are
// signed with the given jwt service and carry the resolved tenant as a claim.
func NewHandler(svc *Service, jwtSvc *jwt.Service) *Handler {
	return &Handler{svc: svc, jwt: jwtSvc, tokenTTL: DefaultTokenTTL}
}

// Router mounts the auth routes.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.login)
	r.Post("/register", h.register)
	return r
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	u, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	token, expiresAt, err := h.issueToken(r, u)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: expiresAt, User: u})
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	// Self-service registration always creates customers; staff accounts are
	// provisioned by the manager.
	u, err := h.svc.Register(r.Context(), RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		Role:      RoleCustomer,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	token, expiresAt, err := h.issueToken(r, u)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token, ExpiresAt: expiresAt, User: u})
}

func (h *Handler) issueToken(r *http.Request, u *User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(h.tokenTTL)

	claims := jwt.TenantClaims{
		StandardClaims: jwt.StandardClaims{
			Subject:   u.ID.String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
	}
	if t, ok := tenant.FromContext(r.Context()); ok {
		claims.TenantID = t.ID.String()
	}

	token, err := h.jwt.Generate(claims)
	return token, expiresAt, err
}

type errorBody struct {
	Error string `json:"error"`
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var verr validator.ValidationErrors
	switch {
	case errors.As(err, &verr):
		fields := make(map[string][]string, len(verr.Fields()))
		for _, f := range verr.Fields() {
			fields[f] = verr.Get(f)
		}
		writeJSON(w, http.StatusUnprocessableEntity, struct {
			Error  string              `json:"error"`
			Fields map[string][]string `json:"fields"`
		}{Error: "validation failed", Fields: fields})
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUserInactive):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid credentials"})
	case errors.Is(err, ErrEmailAlreadyExists):
		writeJSON(w, http.StatusConflict, errorBody{Error: "email already exists"})
	case errors.Is(err, tenant.ErrTenantRequired):
		writeJSON(w, http.StatusForbidden, errorBody{Error: "tenant scope required"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
