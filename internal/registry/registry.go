package registry

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"gopkg.in/ini.v1"

	"github.com/slig-dev/slig/internal/constants"
	"github.com/slig-dev/slig/internal/errors"
)

// Kind distinguishes the two lock flavors a name can be declared with.
type Kind string

const (
	// KindSimple is a plain mutual-exclusion lock
	KindSimple Kind = "simple"

	// KindReadersWriter admits many read claims or one write claim
	KindReadersWriter Kind = "readers-writer"
)

// ParseKind converts a user-supplied string into a Kind
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindSimple:
		return KindSimple, nil
	case KindReadersWriter:
		return KindReadersWriter, nil
	default:
		return "", errors.NewConfigError("kind", s,
			errors.Wrap(errors.ErrInvalidConfiguration, `kind must be "simple" or "readers-writer"`))
	}
}

// Definition is one declared lock
type Definition struct {
	Name string
	Kind Kind
}

const (
	locksSection    = "locks"
	metadataSection = "metadata"
	versionKey      = "version"
)

// Lock names become marker filenames at the repository root, so they must
// stay inside a single path element and clear of the read claim syntax.
var nameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidName reports whether name can be declared as a lock
func ValidName(name string) bool {
	return nameRe.MatchString(name) && name != constants.ConfigFileName
}

// Registry is the parsed registry record of a working copy. Mutations are
// in-memory until Save writes the record back.
type Registry struct {
	file *ini.File
	path string
}

// Load parses the registry record at the root of a working copy. A missing
// record means repo init was never run against the remote.
func Load(root string) (*Registry, error) {
	path := filepath.Join(root, constants.ConfigFileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrNotInitialized, "no "+constants.ConfigFileName+" in repository")
		}
		return nil, err
	}

	file, err := ini.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse %s in repository", constants.ConfigFileName)
	}

	return &Registry{file: file, path: path}, nil
}

// Create writes a fresh registry record at the root of a working copy.
// It fails if one already exists.
func Create(root string) (*Registry, error) {
	path := filepath.Join(root, constants.ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return nil, errors.Wrap(errors.ErrAlreadyInitialized, constants.ConfigFileName+" already exists")
	}

	file := ini.Empty()
	file.Section(locksSection)
	file.Section(metadataSection).Key(versionKey).SetValue(constants.SchemaVersion)

	r := &Registry{file: file, path: path}
	if err := r.Save(); err != nil {
		return nil, err
	}
	return r, nil
}

// Save writes the record back to its working copy
func (r *Registry) Save() error {
	if err := r.file.SaveTo(r.path); err != nil {
		return errors.Wrapf(err, "cannot write %s", constants.ConfigFileName)
	}
	return nil
}

// Version returns the schema version recorded in the metadata section
func (r *Registry) Version() string {
	return r.file.Section(metadataSection).Key(versionKey).String()
}

// SetVersion stamps the record with the given schema version
func (r *Registry) SetVersion(version string) {
	r.file.Section(metadataSection).Key(versionKey).SetValue(version)
}

// Lookup returns the declared kind of a lock name
func (r *Registry) Lookup(name string) (Kind, bool) {
	section := r.file.Section(locksSection)
	if !section.HasKey(name) {
		return "", false
	}
	return Kind(section.Key(name).String()), true
}

// List returns all declared locks sorted by name
func (r *Registry) List() []Definition {
	section := r.file.Section(locksSection)
	keys := section.KeyStrings()
	sort.Strings(keys)

	defs := make([]Definition, 0, len(keys))
	for _, name := range keys {
		defs = append(defs, Definition{Name: name, Kind: Kind(section.Key(name).String())})
	}
	return defs
}

// Add declares a new lock. Duplicate names are rejected rather than
// silently redefined.
func (r *Registry) Add(name string, kind Kind) error {
	if !ValidName(name) {
		return errors.NewConfigError("lock name", name,
			errors.Wrap(errors.ErrInvalidConfiguration, "lock names may contain letters, digits, - and _"))
	}

	section := r.file.Section(locksSection)
	if section.HasKey(name) {
		return errors.NewLockError(name, "", errors.ErrLockAlreadyDeclared)
	}

	section.Key(name).SetValue(string(kind))
	return nil
}

// Delete removes a lock declaration
func (r *Registry) Delete(name string) error {
	section := r.file.Section(locksSection)
	if !section.HasKey(name) {
		return errors.NewLockError(name, "", errors.ErrLockNotDeclared)
	}

	section.DeleteKey(name)
	return nil
}

// Set changes the kind of an existing declaration
func (r *Registry) Set(name string, kind Kind) error {
	section := r.file.Section(locksSection)
	if !section.HasKey(name) {
		return errors.NewLockError(name, "", errors.ErrLockNotDeclared)
	}

	section.Key(name).SetValue(string(kind))
	return nil
}
