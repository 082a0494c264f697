package lock

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slig-dev/slig/internal/constants"
	"github.com/slig-dev/slig/internal/errors"
	"github.com/slig-dev/slig/internal/registry"
)

func TestInitRepo(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote(nil)
	m, _ := newTestManager(t, remote, "unused")

	err := m.InitRepo(context.Background())
	require.NoError(t, err)

	record := remote.content(constants.ConfigFileName)
	assert.Contains(t, record, "[locks]")
	assert.Contains(t, record, "[metadata]")
	assert.Contains(t, record, constants.SchemaVersion)
}

func TestInitRepoAlreadyInitialized(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote(map[string]string{
		constants.ConfigFileName: registryRecord(),
	})
	m, _ := newTestManager(t, remote, "unused")

	err := m.InitRepo(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAlreadyInitialized)
}

func TestUpgradeRepo(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote(map[string]string{
		constants.ConfigFileName: strings.Replace(
			registryRecord("build = simple"), constants.SchemaVersion, "0.9", 1),
	})
	m, _ := newTestManager(t, remote, "unused")

	err := m.UpgradeRepo(context.Background())
	require.NoError(t, err)

	record := remote.content(constants.ConfigFileName)
	assert.Contains(t, record, constants.SchemaVersion)
	assert.NotContains(t, record, "0.9")
	assert.Contains(t, record, "build")
}

func TestAddLock(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote(map[string]string{
		constants.ConfigFileName: registryRecord(),
	})
	m, _ := newTestManager(t, remote, "t1")

	ctx := context.Background()

	require.NoError(t, m.AddLock(ctx, "build", registry.KindSimple))
	require.NoError(t, m.AddLock(ctx, "deploy", registry.KindReadersWriter))

	defs, err := m.ListLocks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []registry.Definition{
		{Name: "build", Kind: registry.KindSimple},
		{Name: "deploy", Kind: registry.KindReadersWriter},
	}, defs)

	// The declaration is immediately claimable
	token, err := m.Acquire(ctx, "build", ModeWrite)
	require.NoError(t, err)
	assert.Equal(t, "t1", token)
}

func TestAddLockValidation(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		files       map[string]string
		name        string
		expectedErr error
	}{
		"Duplicate Declaration": {
			files: map[string]string{
				constants.ConfigFileName: registryRecord("build = simple"),
			},
			name:        "build",
			expectedErr: errors.ErrLockAlreadyDeclared,
		},
		"Name With Path Separator": {
			files: map[string]string{
				constants.ConfigFileName: registryRecord(),
			},
			name:        "a/b",
			expectedErr: errors.ErrInvalidConfiguration,
		},
		"Name Shadowing The Registry Record": {
			files: map[string]string{
				constants.ConfigFileName: registryRecord(),
			},
			name:        "slig.ini",
			expectedErr: errors.ErrInvalidConfiguration,
		},
		"Name With Read Claim Syntax": {
			files: map[string]string{
				constants.ConfigFileName: registryRecord(),
			},
			name:        "build.read.x",
			expectedErr: errors.ErrInvalidConfiguration,
		},
	}

	for name, test := range tests {
		test := test
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			remote := newFakeRemote(copyFiles(test.files))
			m, _ := newTestManager(t, remote, "unused")

			err := m.AddLock(context.Background(), test.name, registry.KindSimple)
			require.Error(t, err)
			assert.ErrorIs(t, err, test.expectedErr)
		})
	}
}

func TestDeleteLock(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote(map[string]string{
		constants.ConfigFileName: registryRecord("build = simple"),
	})
	m, _ := newTestManager(t, remote, "unused")

	ctx := context.Background()

	require.NoError(t, m.DeleteLock(ctx, "build"))

	defs, err := m.ListLocks(ctx)
	require.NoError(t, err)
	assert.Empty(t, defs)

	err = m.DeleteLock(ctx, "build")
	assert.ErrorIs(t, err, errors.ErrLockNotDeclared)
}

func TestDeleteLockRefusesWhileHeld(t *testing.T) {
	t.Parallel()

	tests := map[string]map[string]string{
		"Write Holder": {
			constants.ConfigFileName: registryRecord("build = simple"),
			"build":                  "t1\n",
		},
		"Active Readers": {
			constants.ConfigFileName: registryRecord("build = readers-writer"),
			"build":                  constants.ReadSentinel + "\n",
			"build.read.u1":          "u1\n",
		},
	}

	for name, files := range tests {
		files := files
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			remote := newFakeRemote(copyFiles(files))
			m, _ := newTestManager(t, remote, "unused")

			err := m.DeleteLock(context.Background(), "build")
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrLockAlreadyHeld)
			assert.True(t, remote.exists("build"))
		})
	}
}

func TestSetLockKind(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote(map[string]string{
		constants.ConfigFileName: registryRecord("build = simple"),
	})
	m, _ := newTestManager(t, remote, "u1")

	ctx := context.Background()

	require.NoError(t, m.SetLockKind(ctx, "build", registry.KindReadersWriter))

	// Read claims are admitted after the kind change
	_, err := m.Acquire(ctx, "build", ModeRead)
	require.NoError(t, err)
}

func TestSetLockKindRefusesWhileHeld(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote(map[string]string{
		constants.ConfigFileName: registryRecord("build = simple"),
		"build":                  "t1\n",
	})
	m, _ := newTestManager(t, remote, "unused")

	err := m.SetLockKind(context.Background(), "build", registry.KindReadersWriter)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrLockAlreadyHeld)
}

func TestListLocksUninitialized(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote(nil)
	m, _ := newTestManager(t, remote, "unused")

	_, err := m.ListLocks(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotInitialized)
}
