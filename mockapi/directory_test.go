package mockapi_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-auth-frontend/mockapi"
	"github.com/stretchr/testify/require"
)

func TestLoadDirectory(t *testing.T) {
	hash, err := mockapi.HashPassword("secret1")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "users.yaml")
	doc := fmt.Sprintf("users:\n  - id: 3\n    name: Wang Wu\n    email: ww@example.com\n    passwordHash: %q\n", hash)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	dir, err := mockapi.LoadDirectory(path)
	require.NoError(t, err)
	require.Equal(t, 1, dir.Len())

	u, ok := dir.Authenticate("ww@example.com", "secret1")
	require.True(t, ok)
	require.Equal(t, int64(3), u.Profile().ID)

	_, ok = dir.Authenticate("ww@example.com", "nope")
	require.False(t, ok)
	_, ok = dir.Authenticate("nobody@example.com", "secret1")
	require.False(t, ok)
}

func TestLoadDirectory_Errors(t *testing.T) {
	_, err := mockapi.LoadDirectory(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "users.yaml")
	require.NoError(t, os.WriteFile(path, []byte("users:\n  - name: no email\n"), 0o600))
	_, err = mockapi.LoadDirectory(path)
	require.ErrorContains(t, err, "email and passwordHash are required")
}
