package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors that can be used with errors.Is() for error type checking
var (
	// ErrInvalidConfiguration indicates a missing remote address or an
	// invalid flag/mode combination; detected before any repository contact
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrGitOperationFailed indicates a git command returned an error
	ErrGitOperationFailed = errors.New("git operation failed")

	// ErrPushRejected indicates the remote refused a push because its tip
	// advanced past the local history; callers classify it via a rebase
	ErrPushRejected = errors.New("push rejected by remote")

	// ErrNotInitialized indicates the remote repository has no registry
	// record yet (repo init was never run)
	ErrNotInitialized = errors.New("repository is not initialized")

	// ErrAlreadyInitialized indicates repo init found an existing registry
	// record
	ErrAlreadyInitialized = errors.New("repository is already initialized")

	// ErrLockNotDeclared indicates the lock name is absent from the registry
	ErrLockNotDeclared = errors.New("lock is not declared")

	// ErrLockAlreadyDeclared indicates locks add found the name already
	// present in the registry
	ErrLockAlreadyDeclared = errors.New("lock is already declared")

	// ErrLockAlreadyHeld indicates an acquire precondition found the lock
	// held in the freshly cloned state
	ErrLockAlreadyHeld = errors.New("lock already held")

	// ErrAcquiredByOthers indicates another client won the push race for
	// the same lock after our precondition check passed
	ErrAcquiredByOthers = errors.New("lock acquired by others")

	// ErrLockNotHeld indicates a release found no claim to remove
	ErrLockNotHeld = errors.New("lock is not held")

	// ErrTokenMismatch indicates a release supplied a token that does not
	// match the recorded holder
	ErrTokenMismatch = errors.New("token mismatch")

	// ErrSetupCorrupted indicates a genuine conflict during release despite
	// a matching token, which means the claim invariants were broken by an
	// out-of-protocol write
	ErrSetupCorrupted = errors.New("setup is corrupted")
)

// New creates a new error with the given message.
// This is a convenience function that wraps errors.New.
func New(message string) error {
	return errors.New(message)
}

// Errorf creates a new formatted error.
// This is a convenience function that wraps fmt.Errorf.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Wrap wraps an error with a message for better context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message for better context.
func Wrapf(err error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether target is in err's chain.
// This is a convenience function that wraps errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience function that wraps errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GitError represents an error that occurred during a Git operation.
// It captures the command details, underlying error, and command output.
type GitError struct {
	Operation string
	Args      []string
	Err       error
	Output    string
}

// Error implements the error interface with a detailed, user-friendly error message.
func (e *GitError) Error() string {
	msg := fmt.Sprintf("git %s failed", e.Operation)
	if e.Output != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Output)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *GitError) Unwrap() error {
	return e.Err
}

// NewGitError creates a new GitError with the given parameters.
func NewGitError(operation string, args []string, err error, output string) *GitError {
	return &GitError{
		Operation: operation,
		Args:      args,
		Err:       err,
		Output:    output,
	}
}

// LockError represents a failure of an acquire or release precondition
// against a named lock. Token is empty when no credential was involved.
type LockError struct {
	Name  string
	Token string
	Err   error
}

// Error implements the error interface with details about the lock and claim.
func (e *LockError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("lock %s (token %s): %v", e.Name, e.Token, e.Err)
	}
	return fmt.Sprintf("lock %s: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *LockError) Unwrap() error {
	return e.Err
}

// NewLockError creates a new LockError with the given parameters.
func NewLockError(name, token string, err error) *LockError {
	return &LockError{
		Name:  name,
		Token: token,
		Err:   err,
	}
}

// ConfigError represents an error in the application configuration.
// It includes the parameter name, its value if available, and the underlying error.
type ConfigError struct {
	Parameter string
	Value     interface{}
	Err       error
}

// Error implements the error interface with details about the invalid configuration.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("configuration error for %s = %v: %v", e.Parameter, e.Value, e.Err)
	}
	return fmt.Sprintf("configuration error for %s: %v", e.Parameter, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError with the given parameters.
func NewConfigError(parameter string, value interface{}, err error) *ConfigError {
	return &ConfigError{
		Parameter: parameter,
		Value:     value,
		Err:       err,
	}
}
