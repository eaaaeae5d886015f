package domain

import "errors"

var (
	// ErrMissingDestination means no usable phone number was supplied
	ErrMissingDestination = errors.New("no mobile number found")

	// ErrHandoffUnsupported means the platform cannot resolve the deep link
	ErrHandoffUnsupported = errors.New("messaging app is not available")

	// ErrHandoffFailed means the platform raised an error while opening the deep link
	ErrHandoffFailed = errors.New("failed to open messaging app")

	ErrClipboard = errors.New("clipboard unavailable")

	ErrInvoiceNotFound = errors.New("invoice not found")
)
