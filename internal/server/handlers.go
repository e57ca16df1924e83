package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vanshika/fedfinger/internal/activitypub"
	"github.com/vanshika/fedfinger/internal/discovery"
	"github.com/vanshika/fedfinger/internal/webfinger"
)

// DiscoveryHandlers exposes the WebFinger, actor and profile routes.
type DiscoveryHandlers struct {
	logger         *slog.Logger
	service        *discovery.Service
	redirectStatus int
}

// NewDiscoveryHandlers constructs DiscoveryHandlers. redirectStatus is the
// status used for profile redirects (302 or 303); zero means 302.
func NewDiscoveryHandlers(logger *slog.Logger, svc *discovery.Service, redirectStatus int) *DiscoveryHandlers {
	if redirectStatus == 0 {
		redirectStatus = http.StatusFound
	}
	return &DiscoveryHandlers{
		logger:         logger,
		service:        svc,
		redirectStatus: redirectStatus,
	}
}

func (h *DiscoveryHandlers) register(r chi.Router) {
	r.Get("/.well-known/webfinger", h.handleWebFinger)
	r.Get("/users/{username}", h.handleUser)
	r.Get("/{username}", h.handleProfileAlias)
}

func (h *DiscoveryHandlers) handleWebFinger(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var resource *string
	if values, ok := query["resource"]; ok && len(values) > 0 {
		resource = &values[0]
	}

	// RFC 7033 §5: descriptors are readable from any origin.
	w.Header().Set("Access-Control-Allow-Origin", "*")
	h.write(w, r, h.service.WebFinger(r.Context(), resource, query["rel"]))
}

func (h *DiscoveryHandlers) handleUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Vary", "Accept")
	resp := h.service.User(r.Context(), discovery.PathUser, usernameParam(r), acceptHeader(r))
	h.write(w, r, resp)
}

func (h *DiscoveryHandlers) handleProfileAlias(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Vary", "Accept")
	username := strings.TrimPrefix(usernameParam(r), "@")
	resp := h.service.User(r.Context(), discovery.PathProfileAlias, username, acceptHeader(r))
	h.write(w, r, resp)
}

// write serializes every discovery outcome. New response kinds must be added
// here.
func (h *DiscoveryHandlers) write(w http.ResponseWriter, r *http.Request, resp discovery.Response) {
	switch resp := resp.(type) {
	case discovery.WebFingerResponse:
		respondJSON(w, http.StatusOK, webfinger.MediaType, resp.Document)
	case discovery.ActorResponse:
		respondJSON(w, http.StatusOK, activitypub.MediaType, resp.Actor)
	case discovery.RedirectResponse:
		http.Redirect(w, r, resp.Location, h.redirectStatus)
	case discovery.ErrorResponse:
		writeError(w, resp.Status, resp.Code, resp.Message)
	default:
		h.logger.Error("unhandled discovery response", "type", fmt.Sprintf("%T", resp))
		writeError(w, http.StatusInternalServerError, discovery.CodeInternal, "internal error")
	}
}

// acceptHeader returns the request's Accept value, or nil when absent.
// Repeated headers are joined and so never match a single media type.
func acceptHeader(r *http.Request) *string {
	values := r.Header.Values("Accept")
	if len(values) == 0 {
		return nil
	}
	accept := strings.Join(values, ", ")
	return &accept
}

func usernameParam(r *http.Request) string {
	username := chi.URLParam(r, "username")
	// chi matches against RawPath when the path needed escaping.
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(username); err == nil {
			return unescaped
		}
	}
	return username
}
