// Package config handles configuration for the slig application.
//
// Configuration comes from environment variables, the only configuration
// surface the tool has besides per-command flags:
//
//   - SLIG_GIT_REPO: address of the shared remote repository (required)
//   - SLIG_GIT_OPTIONS: extra arguments passed to every git invocation
//   - SLIG_DEBUG: enable debug logging
//   - SLIG_LOG_FILE: debug log destination (default derived from the remote)
//
// Finalize validates the configuration and fails fast on a missing remote,
// before any repository contact is attempted.
package config
