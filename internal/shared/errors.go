package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrTaskFailed         = fmt.Errorf("index task failed")
	ErrLyricsNotFound     = fmt.Errorf("lyrics not found")

	// Local state errors
	ErrLyricsFileMissing = fmt.Errorf("lyrics document not found")
	ErrInvalidDataset    = fmt.Errorf("invalid emoji dataset")
)
