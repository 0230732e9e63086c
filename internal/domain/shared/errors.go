package shared

import "errors"

// Domain-specific errors
var (
	// Gig errors
	ErrGigNotFound        = errors.New("gig not found")
	ErrGigClosed          = errors.New("gig is no longer open for bidding")
	ErrGigAlreadyAssigned = errors.New("gig is no longer open")
	ErrInvalidTitle       = errors.New("title is required")
	ErrInvalidDescription = errors.New("description is required")
	ErrInvalidBudget      = errors.New("budget must be a non-negative amount")

	// Bid errors
	ErrBidNotFound      = errors.New("bid not found")
	ErrBidNotPending    = errors.New("bid is no longer pending")
	ErrDuplicateBid     = errors.New("you have already bid on this gig")
	ErrSelfBidForbidden = errors.New("you cannot bid on your own gig")
	ErrInvalidMessage   = errors.New("message is required")
	ErrInvalidPrice     = errors.New("price must be a non-negative amount")

	// Capability errors
	ErrForbidden = errors.New("only the gig owner can perform this action")

	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Validation errors
	ErrInvalidInput = errors.New("invalid request")

	// Database errors
	ErrDatabaseConnection  = errors.New("database connection failed")
	ErrDatabaseQuery       = errors.New("database query failed")
	ErrDatabaseTransaction = errors.New("database transaction failed")

	// WebSocket errors
	ErrWebSocketConnection = errors.New("websocket connection failed")
	ErrWebSocketMessage    = errors.New("websocket message error")

	// WebSocket message validation errors
	ErrMessageTypeRequired = errors.New("message type is required")
	ErrUnknownMessageType  = errors.New("unknown message type")

	// Notification errors
	ErrPublishFailed              = errors.New("notification publish failed")
	ErrClientEventChannelNotFound = errors.New("client event channel not found")
)
