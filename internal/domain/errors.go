package domain

import "errors"

var (
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrBusinessInactive      = errors.New("business is inactive")
	ErrUserInactive          = errors.New("user is inactive")
	ErrDuplicateEmail        = errors.New("email already exists for this business")
	ErrDuplicateBusinessSlug = errors.New("business slug already exists")
	ErrDuplicateGSTIN        = errors.New("gstin already registered")
	ErrDuplicateInvoiceNo    = errors.New("invoice number already exists")
	ErrInvalidGSTIN          = errors.New("invalid gstin")
	ErrInvalidStateCode      = errors.New("invalid state code")
	ErrGSTINStateMismatch    = errors.New("gstin state does not match state code")
	ErrInvoiceCancelled      = errors.New("invoice is already cancelled")
	ErrTotalsMismatch        = errors.New("declared totals do not match computed totals")
	ErrRateNotFound          = errors.New("no tax rate for hsn code")
	ErrInvalidPeriod         = errors.New("invalid reporting period")
	ErrArchiveDisabled       = errors.New("report archive is not configured")
	ErrUploadFailed          = errors.New("upload to storage failed")
	ErrSelfModification      = errors.New("cannot change own role or deactivate own account")
)
