package reversaar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_StartUnauthenticated(t *testing.T) {
	_, client := newTestClient(t)
	app := NewApp(client)

	require.NoError(t, app.Start(context.Background()))
	assert.False(t, app.Session.LoggedIn())
	assert.Equal(t, 0, app.Listing(KindText, "").Count())
}

func TestApp_SessionSurvivesRestart(t *testing.T) {
	srv, client, app := serverApp(t)
	seed(t, client, 2)

	next, err := NewClient(srv.URL)
	require.NoError(t, err)
	token := client.Credential()
	require.NotEmpty(t, token)
	next.SetCredential(token)
	restarted := NewApp(next)
	require.NoError(t, restarted.Start(context.Background()))

	user, ok := restarted.Session.User()
	require.True(t, ok)
	assert.Equal(t, "alice", user)
	assert.Equal(t, 2, restarted.Session.Count(KindText))
	assert.Equal(t, 0, app.Session.Count(KindText))
}

func TestApp_Logout(t *testing.T) {
	_, client, app := serverApp(t)
	var changes int
	app.Subscribe(func(e Event) {
		if e.Name == EventSessionChanged {
			changes++
		}
	})

	require.NotEmpty(t, client.Credential())
	require.NoError(t, app.Logout())
	assert.False(t, app.Session.LoggedIn())
	assert.Empty(t, client.Credential())
	assert.Equal(t, 1, changes)

	require.NoError(t, app.Start(context.Background()))
	assert.False(t, app.Session.LoggedIn())
}
