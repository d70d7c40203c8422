package services

import "errors"

var (
	ErrUnknown             = errors.New("[service]: unknown error")
	ErrRecordNotFound      = errors.New("[service]: record not found")
	ErrEmptyURL            = errors.New("[service]: url is empty")
	ErrSlugTaken           = errors.New("[service]: slug already taken")
	ErrSelfReferral        = errors.New("[service]: referrer equals sender")
	ErrInsufficientPayment = errors.New("[service]: insufficient payment")
	ErrNotOwner            = errors.New("[service]: sender is not the owner")
	ErrPaused              = errors.New("[service]: registry is paused")
	ErrZeroBalance         = errors.New("[service]: zero balance")
	ErrInvalidBips         = errors.New("[service]: fee share exceeds 10000 bips")
	ErrSlugSpaceExhausted  = errors.New("[service]: slug space exhausted")
)
