package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"nomadpal/internal/authclient"
	"nomadpal/marketplace-service/internal/models"
)

type MarketplaceService interface {
	ListServices(context.Context, models.ServiceFilter) ([]models.Service, error)
	Recommended(ctx context.Context, location, limit string) ([]models.Service, error)
	GetService(context.Context, string) (*models.Service, error)
	CreateService(ctx context.Context, providerID string, req *models.ServiceRequest) (*models.Service, error)
	UpdateService(ctx context.Context, providerID, id string, req *models.ServiceRequest) (*models.Service, error)
	DeleteService(ctx context.Context, providerID, id string) error
	SetVerified(ctx context.Context, id string, verified bool) (*models.Service, error)
}

type ServiceHandler struct {
	service MarketplaceService
}

func NewServiceHandler(service MarketplaceService) *ServiceHandler {
	return &ServiceHandler{
		service: service,
	}
}

// RegisterRoutes mounts the catalogue. authMW guards provider routes and
// adminMW the moderation routes.
func (h *ServiceHandler) RegisterRoutes(router *mux.Router, authMW, adminMW mux.MiddlewareFunc) {
	servicesRouter := router.PathPrefix("/api/services").Subrouter()
	servicesRouter.HandleFunc("", h.ListServices).Methods(http.MethodGet)
	servicesRouter.HandleFunc("/recommended", h.Recommended).Methods(http.MethodGet)
	servicesRouter.HandleFunc("/{id}", h.GetService).Methods(http.MethodGet)
	servicesRouter.Handle("", authMW(http.HandlerFunc(h.CreateService))).Methods(http.MethodPost)
	servicesRouter.Handle("/{id}", authMW(http.HandlerFunc(h.UpdateService))).Methods(http.MethodPut)
	servicesRouter.Handle("/{id}", authMW(http.HandlerFunc(h.DeleteService))).Methods(http.MethodDelete)

	adminRouter := router.PathPrefix("/api/admin/services").Subrouter()
	adminRouter.Use(adminMW)
	adminRouter.HandleFunc("/{id}/verify", h.VerifyService).Methods(http.MethodPatch)
}

// ListServices lists services in the order they were added (public endpoint)
func (h *ServiceHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	services, err := h.service.ListServices(r.Context(), models.ServiceFilter{
		Type:     q.Get("type"),
		Location: q.Get("location"),
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, services)
}

// Recommended returns the best rated verified services (public endpoint)
func (h *ServiceHandler) Recommended(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	services, err := h.service.Recommended(r.Context(), q.Get("location"), q.Get("limit"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, services)
}

func (h *ServiceHandler) GetService(w http.ResponseWriter, r *http.Request) {
	service, err := h.service.GetService(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, service)
}

// CreateService lists a new service for the caller
func (h *ServiceHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	identity, ok := authclient.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	req := new(models.ServiceRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondWithError(w, http.StatusBadRequest, err)
		return
	}

	service, err := h.service.CreateService(r.Context(), identity.UserID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, service)
}

// UpdateService updates a service owned by the caller
func (h *ServiceHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	identity, ok := authclient.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	req := new(models.ServiceRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondWithError(w, http.StatusBadRequest, err)
		return
	}

	service, err := h.service.UpdateService(r.Context(), identity.UserID, mux.Vars(r)["id"], req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, service)
}

// DeleteService deletes a service owned by the caller
func (h *ServiceHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	identity, ok := authclient.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	if err := h.service.DeleteService(r.Context(), identity.UserID, mux.Vars(r)["id"]); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// VerifyService sets the verified flag (admin only)
func (h *ServiceHandler) VerifyService(w http.ResponseWriter, r *http.Request) {
	req := new(models.VerifyRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, err)
		return
	}

	verified := true
	if req.Verified != nil {
		verified = *req.Verified
	}

	service, err := h.service.SetVerified(r.Context(), mux.Vars(r)["id"], verified)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, service)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, code int, err error) {
	respondWithJSON(w, code, map[string]string{"error": err.Error()})
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err)
	case errors.Is(err, models.ErrInvalidID), errors.Is(err, models.ErrValidation):
		respondWithError(w, http.StatusBadRequest, err)
	case errors.Is(err, models.ErrForbidden):
		respondWithError(w, http.StatusForbidden, err)
	default:
		respondWithError(w, http.StatusInternalServerError, err)
	}
}
