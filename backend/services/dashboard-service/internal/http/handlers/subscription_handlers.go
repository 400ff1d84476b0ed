package handlers

import (
	"context"
	"net/http"

	"citydash/backend/services/dashboard-service/internal/models"
	"citydash/backend/services/dashboard-service/internal/validation"
)

// SubscriptionManager manages newsletter subscribers.
type SubscriptionManager interface {
	Subscribe(ctx context.Context, email string) (*models.Subscriber, error)
	List(ctx context.Context) ([]models.Subscriber, error)
}

// SubscriptionHandlers serves the newsletter endpoints.
type SubscriptionHandlers struct {
	subscriptions SubscriptionManager
}

// NewSubscriptionHandlers builds handlers.
func NewSubscriptionHandlers(subscriptions SubscriptionManager) *SubscriptionHandlers {
	return &SubscriptionHandlers{subscriptions: subscriptions}
}

// Subscribe handles POST /subscribe.
func (h *SubscriptionHandlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Success bool               `json:"success"`
		Message string             `json:"message"`
		Data    *models.Subscriber `json:"data"`
	}

	obj, err := decodeObject(w, r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	email, err := validation.Email(obj)
	if err != nil {
		writeAppError(w, err)
		return
	}

	sub, err := h.subscriptions.Subscribe(r.Context(), email)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, response{
		Success: true,
		Message: "Successfully subscribed to the newsletter",
		Data:    sub,
	})
}

// List handles GET /subscribers.
func (h *SubscriptionHandlers) List(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Count   int                 `json:"count"`
		Results []models.Subscriber `json:"results"`
	}

	subs, err := h.subscriptions.List(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Count: len(subs), Results: subs})
}
