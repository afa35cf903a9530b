package core

import (
	"errors"
	"time"
)

// Accept retry bounds. A failing accept is retried forever with exponential
// backoff between these limits; the delay resets after a successful accept.
const (
	acceptRetryInitial = 5 * time.Millisecond
	acceptRetryMax     = time.Second
)

// Error definitions
var (
	ErrServerClosed = errors.New("server closed")
)
