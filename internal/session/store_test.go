package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreGetSetDelete(t *testing.T) {
	store := newTestStore(t)

	value, err := store.Get("missing")
	require.NoError(t, err)
	require.Equal(t, "", value)

	require.NoError(t, store.Set("k", "v1"))
	value, err = store.Get("k")
	require.NoError(t, err)
	require.Equal(t, "v1", value)

	require.NoError(t, store.Set("k", "v2"))
	value, err = store.Get("k")
	require.NoError(t, err)
	require.Equal(t, "v2", value)

	require.NoError(t, store.Delete("k"))
	value, err = store.Get("k")
	require.NoError(t, err)
	require.Equal(t, "", value)
}

func TestSessionRoundTrip(t *testing.T) {
	store := newTestStore(t)

	saved := &AdminSession{
		Token:        "tok-1",
		AdminID:      "a1",
		Username:     "admin",
		Role:         "manager",
		IsSuperAdmin: true,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		StaySignedIn: true,
	}
	require.NoError(t, store.SaveSession(saved))

	loaded, err := store.LoadSession()
	require.NoError(t, err)
	require.Equal(t, saved, loaded)
}

func TestBooleansStoredAsLiteralStrings(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveSession(&AdminSession{
		Token: "tok-1", AdminID: "a1", Username: "admin",
		IsSuperAdmin: true, StaySignedIn: false,
	}))

	superAdmin, err := store.Get(KeyIsSuperAdmin)
	require.NoError(t, err)
	require.Equal(t, "true", superAdmin)

	stay, err := store.Get(KeyStaySignedIn)
	require.NoError(t, err)
	require.Equal(t, "false", stay)
}

func TestOptionalNamesOnlyWrittenWhenPresent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveSession(&AdminSession{
		Token: "tok-1", AdminID: "a1", Username: "admin",
	}))

	first, err := store.Get(KeyFirstName)
	require.NoError(t, err)
	require.Equal(t, "", first)
}

func TestLoadSessionWithoutTokenReturnsNil(t *testing.T) {
	store := newTestStore(t)

	loaded, err := store.LoadSession()
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestClearSessionRemovesEveryKey(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveSession(&AdminSession{
		Token: "tok-1", AdminID: "a1", Username: "admin",
		Role: "user", IsSuperAdmin: true, StaySignedIn: true,
		FirstName: "Ada", LastName: "Lovelace",
	}))
	require.NoError(t, store.ClearSession())

	for _, key := range []string{
		KeyToken, KeyAdminID, KeyUsername, KeyRole,
		KeyIsSuperAdmin, KeyStaySignedIn, KeyFirstName, KeyLastName,
	} {
		value, err := store.Get(key)
		require.NoError(t, err)
		require.Equal(t, "", value, "key %s should be cleared", key)
	}

	loaded, err := store.LoadSession()
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestSessionSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveSession(&AdminSession{
		Token: "tok-1", AdminID: "a1", Username: "admin", StaySignedIn: true,
	}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.LoadSession()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, "tok-1", loaded.Token)
	require.True(t, loaded.StaySignedIn)
}
