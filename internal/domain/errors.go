package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrNotFound      = errors.New("product not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInternalDb    = errors.New("internal database error")
	ErrInternalCache = errors.New("internal cache error")
	ErrAssetHost     = errors.New("asset host error")
	ErrUnauthorized  = errors.New("unauthorized")
)

// ErrorContainer collects every error raised while serving one request so the
// logging middleware can report them together.
type ErrorContainer struct {
	mu    sync.Mutex
	inner []error
}

func NewErrorContainer(e ...error) *ErrorContainer {
	ec := &ErrorContainer{inner: make([]error, 0, len(e))}
	ec.inner = append(ec.inner, e...)
	return ec
}

func (c *ErrorContainer) Add(e ...error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, err := range e {
		if err != nil {
			c.inner = append(c.inner, err)
		}
	}
}

func (c *ErrorContainer) Error() string {
	var errMessage strings.Builder
	for _, err := range c.Unwrap() {
		errMessage.WriteString(err.Error())
		errMessage.WriteString(";\n")
	}
	return errMessage.String()
}

func (c *ErrorContainer) Unwrap() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]error, len(c.inner))
	copy(out, c.inner)
	return out
}

type errorContainerKey struct{}

func WithErrorContainer(ctx context.Context, c *ErrorContainer) context.Context {
	return context.WithValue(ctx, errorContainerKey{}, c)
}

// ErrorContainerFrom returns the request's container. Requests that did not
// pass through the logging middleware get a detached one, so callers never
// need a nil check.
func ErrorContainerFrom(ctx context.Context) *ErrorContainer {
	if c, ok := ctx.Value(errorContainerKey{}).(*ErrorContainer); ok && c != nil {
		return c
	}
	return NewErrorContainer()
}

// ServiceError separates the error that failed an operation from errors that
// were only worth logging (e.g. a cache miss on the way to the store).
type ServiceError struct {
	CriticalError     error
	NonCriticalErrors []error
}

func NewServiceError(critical error, nonCritical []error) *ServiceError {
	return &ServiceError{CriticalError: critical, NonCriticalErrors: nonCritical}
}

func (se *ServiceError) Error() string {
	var errMessage strings.Builder
	errMessage.WriteString("service error(s):\n")
	for _, err := range se.NonCriticalErrors {
		errMessage.WriteString(fmt.Sprintf("%s\n", err.Error()))
	}
	if se.CriticalError != nil {
		errMessage.WriteString(fmt.Sprintf("%s\n", se.CriticalError.Error()))
	}
	return errMessage.String()
}

func (se *ServiceError) Unwrap() []error {
	errs := make([]error, 0, len(se.NonCriticalErrors)+1)
	if se.CriticalError != nil {
		errs = append(errs, se.CriticalError)
	}
	return append(errs, se.NonCriticalErrors...)
}
