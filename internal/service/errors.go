package service

import "errors"

var (
	ErrNotFound              = errors.New("resource not found")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrDocumentLocked        = errors.New("document is posted and can no longer be edited")
	ErrNoLineItems           = errors.New("document has no line items")
	ErrMissingCounterparty   = errors.New("document has no counterparty")
	ErrInvalidAmount         = errors.New("amount must be greater than zero")
	ErrPaymentExceedsBalance = errors.New("payment exceeds remaining balance")
	ErrNotPosted             = errors.New("document is not posted")
	ErrInvalidVATRate        = errors.New("invalid VAT rate")
	ErrQuoteNotAccepted      = errors.New("quote must be accepted before conversion")
	ErrQuoteAlreadyConverted = errors.New("quote has already been converted")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrStockNotTracked       = errors.New("product does not track stock")
)
