package reversaar

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_UnmarshalJSON(t *testing.T) {
	var s Session
	require.NoError(t, json.Unmarshal([]byte(`{"user":"alice","text":3,"array":1,"other":9}`), &s))
	assert.Equal(t, "alice", s.User)
	assert.Equal(t, 3, s.Count(KindText))
	assert.Equal(t, 1, s.Count(KindByteArray))
	assert.Equal(t, 0, s.Count(KindAudio))
}

func TestSession_UnmarshalJSON_Malformed(t *testing.T) {
	for _, body := range []string{
		`{"text":3}`,
		`{"user":1}`,
		`{"user":"a","text":-1}`,
		`{"user":"a","audio":"x"}`,
	} {
		var s Session
		err := json.Unmarshal([]byte(body), &s)
		assert.ErrorIs(t, err, ErrMalformedResponse, body)
	}
}

func TestSession_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Session{User: "bob", Counts: map[Kind]int{KindAudio: 2}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"user":"bob","audio":2}`, string(data))
}

func TestSessionStore_ConfirmIsMonotonic(t *testing.T) {
	app := stubApp(t, &stubAPI{}, map[Kind]int{KindText: 3})
	store := app.Session

	assert.Equal(t, 3, store.Confirm(KindText, 1))
	assert.Equal(t, 5, store.Confirm(KindText, 4))
	assert.Equal(t, 5, store.Confirm(KindText, 2))
	assert.Equal(t, 5, store.Count(KindText))
}

func TestSessionStore_ConfirmOutOfOrder(t *testing.T) {
	ids := []int{0, 1, 2, 3, 4}
	orders := [][]int{{0, 1, 2, 3, 4}, {4, 3, 2, 1, 0}, {2, 4, 0, 3, 1}}

	for _, order := range orders {
		app := stubApp(t, &stubAPI{}, nil)
		for _, i := range order {
			app.Session.Confirm(KindByteArray, ids[i])
		}
		assert.Equal(t, 5, app.Session.Count(KindByteArray), "%v", order)
	}
}

func TestSessionStore_ConfirmNotifies(t *testing.T) {
	app := stubApp(t, &stubAPI{}, map[Kind]int{KindText: 2})
	var events []Event
	app.Subscribe(func(e Event) { events = append(events, e) })

	app.Session.Confirm(KindText, 0)
	app.Session.Confirm(KindText, 2)

	require.Len(t, events, 1)
	assert.Equal(t, EventCountChanged, events[0].Name)
	assert.Equal(t, 3, events[0].Count)
}

func TestSessionStore_ConfirmLoggedOut(t *testing.T) {
	store := NewSessionStore(&stubAPI{}, NewBus(), nil)
	assert.Equal(t, 0, store.Confirm(KindText, 4))
	assert.False(t, store.LoggedIn())
}

func TestSessionStore_AbsentKindIsZero(t *testing.T) {
	app := stubApp(t, &stubAPI{}, map[Kind]int{KindText: 1})
	assert.Equal(t, 0, app.Session.Count(KindAudio))
	assert.Equal(t, 1, app.Session.Count(KindText))
}

func TestSessionStore_FetchInfoServerWins(t *testing.T) {
	api := &stubAPI{}
	app := stubApp(t, api, map[Kind]int{KindText: 2})
	app.Session.Confirm(KindText, 9)
	require.Equal(t, 10, app.Session.Count(KindText))

	require.NoError(t, app.Session.FetchInfo(context.Background()))
	assert.Equal(t, 2, app.Session.Count(KindText))
}

func TestSessionStore_FetchInfoUnauthenticated(t *testing.T) {
	api := &stubAPI{}
	app := stubApp(t, api, map[Kind]int{KindText: 2})
	api.info = func(context.Context) (*Session, error) { return nil, nil }

	require.NoError(t, app.Session.FetchInfo(context.Background()))
	assert.False(t, app.Session.LoggedIn())
	assert.Equal(t, 0, app.Session.Count(KindText))
}

func TestSessionStore_FetchInfoErrorKeepsState(t *testing.T) {
	api := &stubAPI{}
	app := stubApp(t, api, map[Kind]int{KindText: 2})
	boom := errors.New("connection refused")
	api.info = func(context.Context) (*Session, error) { return nil, boom }

	err := app.Session.FetchInfo(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.True(t, app.Session.LoggedIn())
	assert.Equal(t, 2, app.Session.Count(KindText))
}

func TestSessionStore_LoginFailureKeepsState(t *testing.T) {
	api := &stubAPI{
		login: func(context.Context, string, string) (*Session, error) {
			return nil, &AuthError{Status: "Unauthorized"}
		},
	}
	store := NewSessionStore(api, NewBus(), nil)

	err := store.Login(context.Background(), "alice", "wrong")
	assert.True(t, IsAuthError(err))
	assert.False(t, store.LoggedIn())
}

func TestSessionStore_LoginAndLogout(t *testing.T) {
	api := &stubAPI{}
	store := NewSessionStore(api, NewBus(), nil)

	require.NoError(t, store.Login(context.Background(), "alice", "pw"))
	user, ok := store.User()
	assert.True(t, ok)
	assert.Equal(t, "alice", user)

	require.NoError(t, store.Logout())
	assert.False(t, store.LoggedIn())
	assert.Nil(t, store.Snapshot())
	assert.Equal(t, 1, api.logouts)
}

func TestSessionStore_SnapshotIsCopy(t *testing.T) {
	app := stubApp(t, &stubAPI{}, map[Kind]int{KindText: 1})
	snap := app.Session.Snapshot()
	snap.Counts[KindText] = 42
	assert.Equal(t, 1, app.Session.Count(KindText))
}
