package httpapi

import (
	"context"
	"errors"
	"net/http"

	"gigflow-marketplace-service/internal/domain/shared"

	"github.com/go-chi/render"
	"github.com/google/uuid"
)

type contextKey string

const userIDKey contextKey = "user_id"

// HttpError is the client-facing error body
type HttpError struct {
	Message string `json:"message"`
}

func NewHttpError(message string) HttpError {
	return HttpError{Message: message}
}

// RequireIdentity resolves the authenticated caller identity. Authentication
// itself happens upstream; this boundary only receives the already-resolved
// identity in the X-User-ID header.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get("X-User-ID")
		if userIDStr == "" {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, NewHttpError("authentication required"))
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, NewHttpError("invalid user identity"))
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func identityFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	return userID, ok
}

// renderError maps a domain error to the client-facing status code
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, shared.ErrGigNotFound),
		errors.Is(err, shared.ErrBidNotFound),
		errors.Is(err, shared.ErrUserNotFound):
		render.Status(r, http.StatusNotFound)
	case errors.Is(err, shared.ErrForbidden):
		render.Status(r, http.StatusForbidden)
	case errors.Is(err, shared.ErrGigClosed),
		errors.Is(err, shared.ErrSelfBidForbidden),
		errors.Is(err, shared.ErrDuplicateBid),
		errors.Is(err, shared.ErrGigAlreadyAssigned),
		errors.Is(err, shared.ErrBidNotPending),
		errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrInvalidMessage),
		errors.Is(err, shared.ErrInvalidPrice),
		errors.Is(err, shared.ErrInvalidTitle),
		errors.Is(err, shared.ErrInvalidDescription),
		errors.Is(err, shared.ErrInvalidBudget):
		render.Status(r, http.StatusBadRequest)
	default:
		render.Status(r, http.StatusInternalServerError)
	}

	render.JSON(w, r, NewHttpError(err.Error()))
}
