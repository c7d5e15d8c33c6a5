package credentials_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solaris-diary/solaris/internal/credentials"
)

func newStore(t *testing.T) *credentials.Store {
	t.Helper()
	return credentials.NewStore(filepath.Join(t.TempDir(), "nested", "auth.json"))
}

func TestLoad_MissingFile(t *testing.T) {
	s := newStore(t)
	_, ok := s.Load()
	assert.False(t, ok)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newStore(t)
	created := time.Date(2026, 10, 1, 12, 30, 0, 0, time.UTC)

	require.NoError(t, s.Save("tok-123", created))

	cred, ok := s.Load()
	require.True(t, ok)
	assert.Equal(t, "tok-123", cred.AccessToken)
	assert.Equal(t, created.UnixMilli(), cred.CreatedAt)
	assert.True(t, cred.Created().Equal(created))

	token, ok := s.Token()
	require.True(t, ok)
	assert.Equal(t, "tok-123", token)
}

func TestSave_FileFormatAndPermissions(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Save("abc", time.UnixMilli(1700000000000)))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `{"access_token":"abc","created_at":1700000000000}`, string(data))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// No temp files are left behind.
	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSave_OverwritesWholesale(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Save("first", time.Now()))
	require.NoError(t, s.Save("second", time.Now()))

	token, ok := s.Token()
	require.True(t, ok)
	assert.Equal(t, "second", token)
}

func TestClear(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Save("tok", time.Now()))

	require.NoError(t, s.Clear())
	_, ok := s.Load()
	assert.False(t, ok)

	// Clearing again is still fine.
	require.NoError(t, s.Clear())
}

func TestLoad_CorruptOrEmptyFileIsAbsent(t *testing.T) {
	for name, body := range map[string]string{
		"corrupt":     "{not json",
		"empty token": `{"access_token":"","created_at":1}`,
		"empty file":  "",
	} {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o700))
			require.NoError(t, os.WriteFile(s.Path(), []byte(body), 0o600))

			_, ok := s.Load()
			assert.False(t, ok)
		})
	}
}
