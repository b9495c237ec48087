package prefs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// StoreSuite runs the same behavioural checks against every Store.
type StoreSuite struct {
	suite.Suite
	newStore func(t *testing.T) Store
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func(*testing.T) Store { return NewMemoryStore() }})
}

func TestFileStoreSuite(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func(t *testing.T) Store {
		s, err := OpenFile(filepath.Join(t.TempDir(), "nested", "prefs.yaml"))
		require.NoError(t, err)
		return s
	}})
}

func (s *StoreSuite) TestGetSetDelete() {
	ctx := context.Background()
	store := s.newStore(s.T())

	_, ok, err := store.Get(ctx, KeyToken)
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(store.Set(ctx, KeyToken, "abc"))
	v, ok, err := store.Get(ctx, KeyToken)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("abc", v)

	s.Require().NoError(store.Delete(ctx, KeyToken))
	_, ok, _ = store.Get(ctx, KeyToken)
	s.False(ok)
}

func (s *StoreSuite) TestUpdateIsAllOrNothing() {
	ctx := context.Background()
	store := s.newStore(s.T())
	s.Require().NoError(store.Set(ctx, KeyTheme, ThemeDark))

	boom := errors.New("boom")
	err := store.Update(ctx, func(values map[string]string) error {
		values[KeyTheme] = ThemeLight
		return boom
	})
	s.ErrorIs(err, boom)

	v, _, _ := store.Get(ctx, KeyTheme)
	s.Equal(ThemeDark, v)
}

func (s *StoreSuite) TestTypedHelpers() {
	ctx := context.Background()
	store := s.newStore(s.T())

	s.Run("token round trip and clear", func() {
		s.Require().NoError(SaveToken(ctx, store, "tok"))
		tok, err := Token(ctx, store)
		s.Require().NoError(err)
		s.Equal("tok", tok)

		s.Require().NoError(SaveToken(ctx, store, ""))
		tok, _ = Token(ctx, store)
		s.Empty(tok)
	})

	s.Run("theme", func() {
		_, ok, err := Theme(ctx, store)
		s.Require().NoError(err)
		s.False(ok)

		s.Require().NoError(SaveTheme(ctx, store, false))
		theme, ok, _ := Theme(ctx, store)
		s.True(ok)
		s.Equal(ThemeLight, theme)
	})

	s.Run("unknown theme value is ignored", func() {
		s.Require().NoError(store.Set(ctx, KeyTheme, "sepia"))
		_, ok, _ := Theme(ctx, store)
		s.False(ok)
	})

	s.Run("connection", func() {
		s.Require().NoError(SaveConnection(ctx, store, "http://localhost:9090/", true))
		host, _ := APIHost(ctx, store)
		s.Equal("http://localhost:9090/", host)
		demo, set, _ := DemoMode(ctx, store)
		s.True(set)
		s.True(demo)

		// empty host keeps the previous override
		s.Require().NoError(SaveConnection(ctx, store, "", false))
		host, _ = APIHost(ctx, store)
		s.Equal("http://localhost:9090/", host)
		demo, _, _ = DemoMode(ctx, store)
		s.False(demo)
	})
}

func (s *StoreSuite) TestConcurrentWriters() {
	ctx := context.Background()
	store := s.newStore(s.T())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Update(ctx, func(values map[string]string) error {
				values["n"] += "x"
				return nil
			})
		}()
	}
	wg.Wait()

	v, _, err := store.Get(ctx, "n")
	s.Require().NoError(err)
	s.Len(v, 20)
}

func TestFileStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.yaml")

	first, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, SaveToken(ctx, first, "persisted"))
	require.NoError(t, SaveTheme(ctx, first, true))

	second, err := OpenFile(path)
	require.NoError(t, err)
	tok, err := Token(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "persisted", tok)
	theme, ok, _ := Theme(ctx, second)
	assert.True(t, ok)
	assert.Equal(t, ThemeDark, theme)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "token: persisted")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStore_FileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	store, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), KeyToken, "secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o600))

	_, err := OpenFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode prefs")
}

func TestFileStore_CanceledContext(t *testing.T) {
	store, err := OpenFile(filepath.Join(t.TempDir(), "prefs.yaml"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, store.Set(ctx, KeyToken, "x"), context.Canceled)
}
