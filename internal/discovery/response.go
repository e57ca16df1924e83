package discovery

import (
	"net/http"

	"github.com/vanshika/fedfinger/internal/activitypub"
	"github.com/vanshika/fedfinger/internal/webfinger"
)

// Response is the outcome of a discovery flow. The set of implementations is
// closed: WebFingerResponse, ActorResponse, RedirectResponse and ErrorResponse.
type Response interface {
	isResponse()
}

// WebFingerResponse carries a JSON Resource Descriptor.
type WebFingerResponse struct {
	Document webfinger.Document
}

// ActorResponse carries an ActivityPub actor document.
type ActorResponse struct {
	Actor activitypub.Actor
}

// RedirectResponse points the client at a profile page. The status code is
// chosen by the transport.
type RedirectResponse struct {
	Location string
}

// ErrorResponse reports a failed request.
type ErrorResponse struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (WebFingerResponse) isResponse() {}
func (ActorResponse) isResponse()     {}
func (RedirectResponse) isResponse()  {}
func (ErrorResponse) isResponse()     {}

// Error codes reported in ErrorResponse.Code.
const (
	CodeMissingResource   = "missing_resource"
	CodeUnsupportedScheme = "unsupported_scheme"
	CodeMalformedAccount  = "malformed_account"
	CodeInvalidUsername   = "invalid_username"
	CodeNotFound          = "not_found"
	CodeStoreUnavailable  = "store_unavailable"
	CodeInternal          = "internal_error"
)

func notFound() ErrorResponse {
	return ErrorResponse{
		Status:  http.StatusNotFound,
		Code:    CodeNotFound,
		Message: "no such account",
	}
}
