package entity

import "errors"

// Domain errors
var (
	// Precedent errors
	ErrPrecedentNotFound   = errors.New("precedent not found")
	ErrNoPrecedentSections = errors.New("precedent has no sections")
	ErrMalformedDocument   = errors.New("malformed precedent document")
	ErrContractTypeUnknown = errors.New("contract type could not be matched")

	// Completion service errors
	ErrCompletionFailed = errors.New("completion request failed")
	ErrEmptyCompletion  = errors.New("completion returned no text")
	ErrMissingAPIKey    = errors.New("completion service api key is not set")
	ErrUnknownProvider  = errors.New("unknown completion provider")

	// File errors
	ErrInvalidFile      = errors.New("invalid file")
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidExtension = errors.New("invalid file extension")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")

	// Configuration errors
	ErrConfig = errors.New("invalid configuration")
)
