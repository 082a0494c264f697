package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/slig-dev/slig/internal/common"
	"github.com/slig-dev/slig/internal/config"
	"github.com/slig-dev/slig/internal/errors"
	"github.com/slig-dev/slig/internal/git"
	"github.com/slig-dev/slig/internal/lock"
	"github.com/slig-dev/slig/internal/logger"
	"github.com/slig-dev/slig/internal/registry"
)

const usage = `slig - distributed locks over a shared git repository

Usage:
  slig repo init                        initialize the remote repository
  slig repo upgrade                     rewrite the registry at the current schema
  slig locks add <name> [--kind K]      declare a lock (simple | readers-writer)
  slig locks delete <name>              remove a lock declaration
  slig locks set <name> --kind K        change a lock's kind
  slig locks list                       print declared locks
  slig acquire <name> [--read|--write]  claim a lock, print the token
  slig release <name> (--uuid <token> | --force) [--read|--write]
  slig version

Environment:
  SLIG_GIT_REPO     address of the shared remote repository (required)
  SLIG_GIT_OPTIONS  extra arguments for every git invocation
  SLIG_DEBUG        enable debug logging
  SLIG_LOG_FILE     debug log destination
`

// LockManager is the protocol surface the CLI drives
type LockManager interface {
	Acquire(ctx context.Context, name string, mode lock.Mode) (string, error)
	Release(ctx context.Context, name string, mode lock.Mode, token string, force bool) error
	InitRepo(ctx context.Context) error
	UpgradeRepo(ctx context.Context) error
	AddLock(ctx context.Context, name string, kind registry.Kind) error
	DeleteLock(ctx context.Context, name string) error
	SetLockKind(ctx context.Context, name string, kind registry.Kind) error
	ListLocks(ctx context.Context) ([]registry.Definition, error)
}

// AppOptions contains app configuration and dependencies
type AppOptions struct {
	// Required
	Config *config.Config

	// Optional components
	Logger  common.Logger
	Manager LockManager

	// I/O dependencies
	Stdout io.Writer
	Stderr io.Writer

	// System dependencies
	ExecLookPath func(file string) (string, error)
}

// App is the main slig application
type App struct {
	Config  *config.Config
	Logger  common.Logger
	Manager LockManager

	// I/O streams
	Stdout io.Writer
	Stderr io.Writer

	// System dependencies
	execLookPath func(file string) (string, error)

	ownedLogger *logger.Logger
}

// NewDefaultApp creates an App with standard dependencies
func NewDefaultApp(versionInfo config.VersionInfo) *App {
	cfg := config.New()
	cfg.VersionInfo = versionInfo
	cfg.LoadFromEnvironment()

	return NewApp(AppOptions{
		Config:       cfg,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		ExecLookPath: exec.LookPath,
	})
}

// NewApp creates an App with custom dependencies
func NewApp(opts AppOptions) *App {
	if opts.Config == nil {
		panic("Config is required in AppOptions")
	}

	app := &App{
		Config:       opts.Config,
		Logger:       opts.Logger,
		Manager:      opts.Manager,
		Stdout:       opts.Stdout,
		Stderr:       opts.Stderr,
		execLookPath: opts.ExecLookPath,
	}

	// Set defaults for nil dependencies
	if app.Stdout == nil {
		app.Stdout = os.Stdout
	}
	if app.Stderr == nil {
		app.Stderr = os.Stderr
	}
	if app.execLookPath == nil {
		app.execLookPath = exec.LookPath
	}

	return app
}

// Run dispatches a command line and returns the process exit code.
// Only protocol results (lock tokens) are written to stdout; everything
// else goes to stderr.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		_, _ = fmt.Fprint(a.Stderr, usage)
		return 1
	}

	var err error
	switch args[0] {
	case "version":
		a.showVersion()
		return 0
	case "help", "-h", "--help":
		_, _ = fmt.Fprint(a.Stderr, usage)
		return 0
	case "repo":
		err = a.runRepo(ctx, args[1:])
	case "locks":
		err = a.runLocks(ctx, args[1:])
	case "acquire":
		err = a.runAcquire(ctx, args[1:])
	case "release":
		err = a.runRelease(ctx, args[1:])
	default:
		err = errors.Errorf("unknown command %q", args[0])
	}

	if err != nil {
		_, _ = fmt.Fprintf(a.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runAcquire handles: slig acquire <name> [--read|--write]
func (a *App) runAcquire(ctx context.Context, args []string) error {
	name, rest, err := takeName("acquire", args)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("acquire", flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	read := fs.Bool("read", false, "acquire a read claim (readers-writer locks)")
	write := fs.Bool("write", false, "acquire a write claim (the default)")
	if err := fs.Parse(rest); err != nil {
		return configErr(err)
	}

	mode, err := pickMode(*read, *write)
	if err != nil {
		return err
	}

	if err := a.initialize(); err != nil {
		return err
	}

	token, err := a.Manager.Acquire(ctx, name, mode)
	if err != nil {
		return err
	}

	// The token is the protocol result and the only stdout output
	_, _ = fmt.Fprintln(a.Stdout, token)
	return nil
}

// runRelease handles: slig release <name> (--uuid <token> | --force) [--read|--write]
func (a *App) runRelease(ctx context.Context, args []string) error {
	name, rest, err := takeName("release", args)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("release", flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	token := fs.String("uuid", "", "token printed by acquire")
	force := fs.Bool("force", false, "release without token verification")
	read := fs.Bool("read", false, "release a read claim")
	write := fs.Bool("write", false, "release a write claim (the default)")
	if err := fs.Parse(rest); err != nil {
		return configErr(err)
	}

	mode, err := pickMode(*read, *write)
	if err != nil {
		return err
	}
	if *token == "" && !*force {
		return configErr(errors.New("either --uuid or --force is required"))
	}

	if err := a.initialize(); err != nil {
		return err
	}

	return a.Manager.Release(ctx, name, mode, *token, *force)
}

// runRepo handles: slig repo (init|upgrade)
func (a *App) runRepo(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return configErr(errors.New("usage: slig repo (init|upgrade)"))
	}

	if err := a.initialize(); err != nil {
		return err
	}

	switch args[0] {
	case "init":
		return a.Manager.InitRepo(ctx)
	case "upgrade":
		return a.Manager.UpgradeRepo(ctx)
	default:
		return configErr(errors.Errorf("unknown repo action %q", args[0]))
	}
}

// runLocks handles: slig locks (add|delete|set|list) ...
func (a *App) runLocks(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return configErr(errors.New("usage: slig locks (add|delete|set|list) ..."))
	}

	if err := a.initialize(); err != nil {
		return err
	}

	action, rest := args[0], args[1:]
	switch action {
	case "list":
		defs, err := a.Manager.ListLocks(ctx)
		if err != nil {
			return err
		}
		for _, def := range defs {
			_, _ = fmt.Fprintf(a.Stdout, "%s = %s\n", def.Name, def.Kind)
		}
		return nil

	case "add":
		name, rest, err := takeName("locks add", rest)
		if err != nil {
			return err
		}
		fs := flag.NewFlagSet("locks add", flag.ContinueOnError)
		fs.SetOutput(a.Stderr)
		kindStr := fs.String("kind", string(registry.KindSimple), "lock kind: simple or readers-writer")
		if err := fs.Parse(rest); err != nil {
			return configErr(err)
		}
		kind, err := registry.ParseKind(*kindStr)
		if err != nil {
			return err
		}
		return a.Manager.AddLock(ctx, name, kind)

	case "delete":
		name, rest, err := takeName("locks delete", rest)
		if err != nil {
			return err
		}
		if len(rest) != 0 {
			return configErr(errors.New("usage: slig locks delete <name>"))
		}
		return a.Manager.DeleteLock(ctx, name)

	case "set":
		name, rest, err := takeName("locks set", rest)
		if err != nil {
			return err
		}
		fs := flag.NewFlagSet("locks set", flag.ContinueOnError)
		fs.SetOutput(a.Stderr)
		kindStr := fs.String("kind", "", "lock kind: simple or readers-writer")
		if err := fs.Parse(rest); err != nil {
			return configErr(err)
		}
		if *kindStr == "" {
			return configErr(errors.New("usage: slig locks set <name> --kind K"))
		}
		kind, err := registry.ParseKind(*kindStr)
		if err != nil {
			return err
		}
		return a.Manager.SetLockKind(ctx, name, kind)

	default:
		return configErr(errors.Errorf("unknown locks action %q", action))
	}
}

// initialize finalizes configuration and wires the default logger and
// manager for components not provided during construction. It runs before
// any repository contact.
func (a *App) initialize() error {
	if err := a.Config.Finalize(); err != nil {
		return err
	}

	if a.Logger == nil {
		l := logger.NewWithOutput(a.Config.Debug, a.Config.LogFile, a.Config.Verbose, a.Stdout, a.Stderr)
		a.Logger = l
		a.ownedLogger = l
	}

	if a.Manager == nil {
		if _, err := a.execLookPath("git"); err != nil {
			return errors.Wrap(errors.ErrGitOperationFailed, "git is not found in PATH")
		}

		client := git.NewClient(a.Config.RemoteURL, a.Config.GitOptions, a.Logger)
		transport := lock.TransportFunc(func(ctx context.Context) (lock.WorkingCopy, error) {
			return client.CloneLatest(ctx)
		})
		a.Manager = lock.NewManager(transport, a.Logger)
	}

	return nil
}

// showVersion displays version information
func (a *App) showVersion() {
	_, _ = fmt.Fprintf(a.Stderr, "slig %s (%s) built on %s\n",
		a.Config.VersionInfo.Version,
		a.Config.VersionInfo.Commit,
		a.Config.VersionInfo.Date)
}

// Close releases resources held by the App
func (a *App) Close() error {
	if a.ownedLogger != nil {
		return a.ownedLogger.Close()
	}
	return nil
}

// takeName pops the leading positional argument so per-command flags may
// follow it, e.g. "slig acquire build --read".
func takeName(command string, args []string) (string, []string, error) {
	if len(args) == 0 || len(args[0]) == 0 || args[0][0] == '-' {
		return "", nil, configErr(errors.Errorf("usage: slig %s <name> [flags]", command))
	}
	return args[0], args[1:], nil
}

// pickMode maps the --read/--write flags onto a claim mode
func pickMode(read, write bool) (lock.Mode, error) {
	if read && write {
		return lock.ModeWrite, configErr(errors.New("--read and --write are mutually exclusive"))
	}
	if read {
		return lock.ModeRead, nil
	}
	return lock.ModeWrite, nil
}

// configErr tags a usage problem with the configuration sentinel
func configErr(err error) error {
	return errors.Wrap(errors.ErrInvalidConfiguration, err.Error())
}
