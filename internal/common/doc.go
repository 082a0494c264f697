// Package common provides shared interfaces used throughout the slig application.
//
// This package holds application-wide contracts that standardize interactions
// between packages. It must not depend on any other internal package.
//
// # Logger Interface
//
// The Logger interface separates internal (debug) logging from user-facing
// messages. slig is a scriptable tool whose standard output carries protocol
// results only, so every user-facing Logger method writes to standard error.
//
// The interface is typically injected into components that need logging:
//
//	type Manager struct {
//	    logger common.Logger
//	}
//
//	func NewManager(logger common.Logger) *Manager {
//	    return &Manager{logger: logger}
//	}
package common
