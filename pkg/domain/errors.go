package domain

import "errors"

// ErrSessionNotFound is returned when no editor session has been recorded.
var ErrSessionNotFound = errors.New("session not found")

// ErrNoStructuredData is returned when a model response holds no recoverable JSON value.
var ErrNoStructuredData = errors.New("no structured data in response")

// ErrEmptyResponse is returned when the model answered with blank text.
var ErrEmptyResponse = errors.New("empty response from model")

// ErrServiceUnavailable is returned by a generator that was configured without credentials.
var ErrServiceUnavailable = errors.New("text generation service unavailable")
