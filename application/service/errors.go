package service

import "errors"

// ErrClientClosed indicates the client has been closed.
var ErrClientClosed = errors.New("textstat: client is closed")

// ErrServiceStopped indicates the count service is no longer accepting work.
var ErrServiceStopped = errors.New("textstat: count service is stopped")
