package session

import (
	"YouthHealth/models"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "session.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestEmptyStore(t *testing.T) {
	s, _ := openTestStore(t)

	token, err := s.Token()
	require.NoError(t, err)
	assert.Empty(t, token)

	profile, err := s.LastProfile()
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestTokenAndProfileSurviveReopen(t *testing.T) {
	s, path := openTestStore(t)
	require.NoError(t, s.SaveToken("tok-1"))
	require.NoError(t, s.SaveToken("tok-2"))
	require.NoError(t, s.SaveProfile(models.User{ID: "u1", Name: "Ada", Age: 19}))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	token, err := reopened.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)

	profile, err := reopened.LastProfile()
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Ada", profile.Name)
	assert.Equal(t, 19, profile.Age)
}

func TestClear(t *testing.T) {
	s, _ := openTestStore(t)
	require.NoError(t, s.SaveToken("tok"))
	require.NoError(t, s.SaveProfile(models.User{ID: "u1"}))

	require.NoError(t, s.Clear())
	token, err := s.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
	profile, err := s.LastProfile()
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestCorruptProfile(t *testing.T) {
	s, _ := openTestStore(t)
	require.NoError(t, s.Set(profileKey, []byte("{not json")))
	_, err := s.LastProfile()
	assert.Error(t, err)
}
