package domain

import "errors"

// Ledger error taxonomy. Catalog and network failures are not part of it;
// they degrade to missing metadata at the boundary.
var (
	// ErrProductNotFound: the referenced product or barcode does not exist.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock: removal requested more than available.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ValidationError reports an invalid input (non-positive quantity,
// negative min stock, empty name).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
