package discovery

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vanshika/fedfinger/internal/activitypub"
	"github.com/vanshika/fedfinger/internal/domain"
	"github.com/vanshika/fedfinger/internal/identity"
	"github.com/vanshika/fedfinger/internal/webfinger"
)

// Resolver is the identity lookup the flows depend on.
type Resolver interface {
	Resolve(ctx context.Context, username string) (domain.Identity, error)
	ServesHost(host string) bool
}

// Service runs the discovery flows. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	logger   *slog.Logger
	resolver Resolver
}

// NewService constructs a Service.
func NewService(logger *slog.Logger, resolver Resolver) *Service {
	return &Service{
		logger:   logger,
		resolver: resolver,
	}
}

// WebFinger answers a WebFinger query. resource is nil when the query had no
// resource parameter; rels optionally restricts the returned links.
func (s *Service) WebFinger(ctx context.Context, resource *string, rels []string) Response {
	if resource == nil {
		return queryError(&webfinger.QueryError{Kind: webfinger.ErrMissingResource})
	}

	ref, err := webfinger.Parse(*resource)
	if err != nil {
		return queryError(err)
	}
	if !s.resolver.ServesHost(ref.Host) {
		s.logger.Debug("webfinger query for foreign host", "resource", *resource)
		return notFound()
	}

	ident, errResp := s.resolve(ctx, ref.Username)
	if errResp != nil {
		return *errResp
	}
	return WebFingerResponse{Document: webfinger.Build(ident, ref).FilterRels(rels)}
}

// User answers a per-user request on shape. accept is nil when the request
// carried no Accept header. The identity is resolved before negotiating so an
// unknown user gets the same answer whatever representation was asked for.
func (s *Service) User(ctx context.Context, shape PathShape, username string, accept *string) Response {
	ident, errResp := s.resolve(ctx, username)
	if errResp != nil {
		return *errResp
	}

	switch Negotiate(shape, accept) {
	case IntentActor:
		return ActorResponse{Actor: activitypub.BuildActor(ident)}
	case IntentProfileRedirect:
		return Redirect(ident)
	default:
		s.logger.Error("per-user request negotiated to webfinger", "shape", shape.String())
		return ErrorResponse{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "internal error"}
	}
}

// Redirect builds the profile redirect for ident. The /users/{username} and
// /{username} routes both end here.
func Redirect(ident domain.Identity) RedirectResponse {
	return RedirectResponse{Location: ident.ProfileURL}
}

func (s *Service) resolve(ctx context.Context, username string) (domain.Identity, *ErrorResponse) {
	ident, err := s.resolver.Resolve(ctx, username)
	if err == nil {
		return ident, nil
	}

	var storeErr *identity.StoreError
	switch {
	case errors.Is(err, identity.ErrNotFound):
		s.logger.Debug("identity not found", "username", username)
		resp := notFound()
		return domain.Identity{}, &resp
	case errors.Is(err, identity.ErrInvalidUsername):
		return domain.Identity{}, &ErrorResponse{
			Status:  http.StatusBadRequest,
			Code:    CodeInvalidUsername,
			Message: "invalid username",
			Err:     err,
		}
	case errors.As(err, &storeErr):
		s.logger.Error("identity store lookup failed", "username", username, "error", err)
		return domain.Identity{}, &ErrorResponse{
			Status:  http.StatusServiceUnavailable,
			Code:    CodeStoreUnavailable,
			Message: "identity store unavailable",
			Err:     err,
		}
	default:
		s.logger.Error("identity resolution failed", "username", username, "error", err)
		return domain.Identity{}, &ErrorResponse{
			Status:  http.StatusInternalServerError,
			Code:    CodeInternal,
			Message: "internal error",
			Err:     err,
		}
	}
}

func queryError(err error) ErrorResponse {
	resp := ErrorResponse{Status: http.StatusBadRequest, Message: err.Error(), Err: err}
	switch {
	case errors.Is(err, webfinger.ErrMissingResource):
		resp.Code = CodeMissingResource
	case errors.Is(err, webfinger.ErrUnsupportedScheme):
		resp.Code = CodeUnsupportedScheme
	default:
		resp.Code = CodeMalformedAccount
	}
	return resp
}
