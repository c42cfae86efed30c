// Package errors provides the error taxonomy for broker interactions.
//
// AuthError, NetworkError and BrokerError wrap failures reported by or on
// the way to a broker; the sentinel errors cover local validation that
// must fail before any network call is made.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for local validation and lookup misses.
var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrNoPreviousClose  = errors.New("no previous close in lookback window")
	ErrUnsupported      = errors.New("operation not supported by this broker")
)

// AuthError indicates an expired or invalid session. It is surfaced to the
// user with a re-authentication prompt and never retried automatically.
type AuthError struct {
	Broker  string
	Message string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("auth error [%s]: %s", e.Broker, e.Message)
	}
	return fmt.Sprintf("auth error [%s]: session expired or invalid", e.Broker)
}

// NewAuthError creates a new AuthError.
func NewAuthError(broker, message string) *AuthError {
	return &AuthError{Broker: broker, Message: message}
}

// NetworkError indicates a transport failure or timeout. The close
// resolver retries it once; everywhere else it is surfaced as-is.
type NetworkError struct {
	Broker string
	Op     string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error [%s] %s: %v", e.Broker, e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError.
func NewNetworkError(broker, op string, err error) *NetworkError {
	return &NetworkError{Broker: broker, Op: op, Err: err}
}

// BrokerError is an application-level rejection from the broker. Message
// carries the broker's text verbatim for display; it is never retried
// automatically since it may reflect an invalid order.
type BrokerError struct {
	Broker  string
	Code    string
	Message string
}

func (e *BrokerError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("broker error [%s:%s]: %s", e.Broker, e.Code, e.Message)
	}
	return fmt.Sprintf("broker error [%s]: %s", e.Broker, e.Message)
}

// NewBrokerError creates a new BrokerError.
func NewBrokerError(broker, code, message string) *BrokerError {
	return &BrokerError{Broker: broker, Code: code, Message: message}
}

// IsAuth reports whether err is an AuthError.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsNetwork reports whether err is a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
