package main

import (
	"context"
	"os"

	"github.com/slig-dev/slig/internal/config"
)

// Version information - injected at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	versionInfo := config.VersionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	app := NewDefaultApp(versionInfo)
	code := app.Run(context.Background(), os.Args[1:])
	_ = app.Close()
	os.Exit(code)
}
