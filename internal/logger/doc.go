// Package logger provides the default implementation of the common.Logger
// interface used throughout slig.
//
// Structured records are written with zerolog to an optional debug log file;
// user-facing lines go to standard error. Nothing in this package ever writes
// to standard output, which the CLI reserves for protocol results (lock
// tokens).
//
// When debug logging is disabled the structured logger is a no-op and only
// user-facing output is produced.
package logger
