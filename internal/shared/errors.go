package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateCode indicates an account code already in use.
	ErrDuplicateCode = errors.New("account code already exists")
	// ErrAccountInUse indicates an account whose derived balance is nonzero.
	ErrAccountInUse = errors.New("account balance is not zero")
	// ErrTransactionNotFound indicates a missing journal transaction.
	ErrTransactionNotFound = errors.New("transaction not found")
)
