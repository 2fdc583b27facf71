package reversaar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginForm_Validation(t *testing.T) {
	app := NewApp(&stubAPI{})
	form := app.LoginForm()

	assert.False(t, form.UsernameValid())
	form.SetUsername("  al ice\t")
	assert.Equal(t, "alice", form.Username())
	assert.True(t, form.UsernameValid())
	assert.False(t, form.PasswordValid())

	assert.ErrorIs(t, form.Submit(context.Background()), ErrInvalidDraft)
	assert.False(t, app.Session.LoggedIn())
}

func TestLoginForm_Submit(t *testing.T) {
	_, client := newTestClient(t)
	app := NewApp(client)
	form := app.LoginForm()

	form.SetUsername("alice")
	form.SetPassword("secret")
	require.NoError(t, form.Submit(context.Background()))
	assert.True(t, app.Session.LoggedIn())
	assert.True(t, form.Notice().IsZero())
	assert.False(t, form.PasswordValid())
}

func TestLoginForm_Rejected(t *testing.T) {
	_, client := newTestClient(t)
	app := NewApp(client)
	form := app.LoginForm()

	form.SetUsername("bad/name")
	form.SetPassword("pw")
	err := form.Submit(context.Background())
	assert.True(t, IsAuthError(err))
	assert.False(t, app.Session.LoggedIn())

	notice := form.Notice()
	assert.Equal(t, NoticeError, notice.Level)
	assert.Equal(t, "could not login (Bad Request)", notice.Message)
	assert.True(t, form.PasswordValid())
}
