// Package constants provides application-wide constant values for the slig application.
//
// This package centralizes the fixed names the lock protocol and the registry
// agree on: the registry filename and schema version, the read sentinel that
// blocks writers while readers are active, the read claim filename separator,
// and the environment variables the CLI reads at startup.
//
// # Usage
//
// The constants in this package can be imported and used directly:
//
//	import "github.com/slig-dev/slig/internal/constants"
//
//	func isRegistry(name string) bool {
//	    return name == constants.ConfigFileName
//	}
//
// Constants live here rather than in the packages that use them because the
// registry record and the marker file layout are shared state between clients:
// every value in this package is part of the on-disk repository format, and
// changing one is a schema change.
package constants
