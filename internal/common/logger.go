package common

// Logger defines the common logging interface used throughout the application.
//
// Internal methods (Info, Warning, Error) record debugging detail and are
// typically written only to the debug log file. User-facing methods
// (InfoToUser, WarningToUser, Success, StatusMessage) always reach the
// terminal. All user-facing output goes to standard error: standard output
// is reserved for protocol results such as lock tokens.
type Logger interface {
	// Private logging methods (file only)

	// Info logs an informational message
	Info(format string, args ...interface{})

	// Warning logs a warning message
	Warning(format string, args ...interface{})

	// Error logs an error message
	Error(format string, args ...interface{})

	// User-facing logging methods (file + stderr)

	// InfoToUser logs an informational message to the user
	InfoToUser(format string, args ...interface{})

	// WarningToUser logs a warning message to the user
	WarningToUser(format string, args ...interface{})

	// Success logs a success message to the user
	Success(format string, args ...interface{})

	// StatusMessage logs a status message to the user
	StatusMessage(format string, args ...interface{})
}
