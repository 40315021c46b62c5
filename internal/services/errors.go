package services

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("caller is not authorized")

	ErrInvalidConfiguration = errors.New("invalid round configuration")
	ErrTicketsAreZero       = errors.New("max entries must be positive")
	ErrFeeIsZero            = errors.New("fee percent must be positive")
	ErrDurationIsZero       = errors.New("duration must be positive")
	ErrTicketPriceIsZero    = errors.New("entry price must be positive")
	ErrFeeAboveHundred      = errors.New("fee percent must not exceed 100")
	ErrTooManyTickets       = fmt.Errorf("max entries must not exceed %d", MaxEntriesLimit)

	ErrZeroQuantity     = errors.New("entry count must be positive")
	ErrPaymentMismatch  = errors.New("paid amount does not match entry price")
	ErrCapacityExceeded = errors.New("round entry capacity exceeded")
	ErrRoundClosed      = errors.New("round is closed for entries")
	ErrRoundStillOpen   = errors.New("round is still open")
	ErrRoundNotFound    = errors.New("round not found")

	ErrWinnerAlreadyDrawn = errors.New("winner already drawn or draw in flight")
	ErrAlreadyFulfilled   = errors.New("draw request already fulfilled")
	ErrUnknownRequest     = errors.New("unknown draw request")
	ErrNoEntries          = errors.New("round has no entries")

	ErrNotWinner      = errors.New("caller is not the round winner")
	ErrAlreadyClaimed = errors.New("prize already claimed")
	ErrTransferFailed = errors.New("funds transfer failed")

	ErrZeroAddress = errors.New("address must not be zero")
)

// invalidConfiguration matches both ErrInvalidConfiguration and the given kind
func invalidConfiguration(kind error) error {
	return fmt.Errorf("%w: %w", ErrInvalidConfiguration, kind)
}
