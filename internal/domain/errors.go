package domain

import "errors"

var (
	// ErrProductNotFound is returned when a barcode is unknown to the product database
	ErrProductNotFound = errors.New("product not found")

	// ErrProductLookupFailure is returned when the product database request fails
	ErrProductLookupFailure = errors.New("product lookup failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrScanNotFound is returned when a scan id does not exist
	ErrScanNotFound = errors.New("scan not found")

	// ErrDuplicateScan is returned when a scan id is stored twice
	ErrDuplicateScan = errors.New("scan already exists")

	// ErrAIUnavailable is returned by vision identification when no model is configured
	ErrAIUnavailable = errors.New("AI model unavailable")

	// ErrImageUnrecognized is returned when the model cannot identify a product in an image
	ErrImageUnrecognized = errors.New("no product recognized in image")
)
