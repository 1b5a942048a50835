package repositories

import "errors"

// Storage-level outcomes shared by every repository implementation. Handlers
// and services branch on these with errors.Is; the wrapped messages carry the
// record details.
var (
	// ErrNotFound covers both a genuinely absent record and a record owned by
	// a different user. The two are deliberately indistinguishable.
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientCredit is returned by Debit when the balance is below the
	// requested amount. The balance is left untouched.
	ErrInsufficientCredit = errors.New("insufficient credit")
)
