package ledger

import "errors"

var (
	ErrTokenNotFound = errors.New("[ledger]: token not found")
	ErrTokenExists   = errors.New("[ledger]: token already issued")
	ErrNotOwner      = errors.New("[ledger]: sender is not the owner")
	ErrNullAddress   = errors.New("[ledger]: null address")
)
