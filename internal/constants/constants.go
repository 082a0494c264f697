package constants

const (
	// ConfigFileName is the versioned registry record at the repository root.
	ConfigFileName = "slig.ini"

	// SchemaVersion is written into the metadata section of the registry
	// record by repo init and repo upgrade.
	SchemaVersion = "1.0"

	// ReadSentinel is the write-marker content that blocks writers while
	// read claims exist.
	ReadSentinel = "READ"

	// ReadClaimSeparator joins a lock name and a read token into a read
	// claim filename: <name>.read.<token>.
	ReadClaimSeparator = ".read."
)

// Environment variables consulted before any protocol step runs.
const (
	EnvRemote     = "SLIG_GIT_REPO"
	EnvGitOptions = "SLIG_GIT_OPTIONS"
	EnvDebug      = "SLIG_DEBUG"
	EnvLogFile    = "SLIG_LOG_FILE"
)
