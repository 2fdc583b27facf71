package reversaar

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticRenderer struct {
	html string
	err  error
}

func (r staticRenderer) Render(ctx context.Context) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if r.err != nil {
			return r.err
		}
		_, err := io.WriteString(w, r.html)
		return err
	})
}

func TestTestRender_Success(t *testing.T) {
	result, err := TestRender(context.Background(), staticRenderer{html: `<p class="a">one</p><p>two</p>`})
	require.NoError(t, err)

	assert.True(t, result.HTMLContains("one"))
	assert.True(t, result.HTMLContainsAll("one", "two"))
	assert.False(t, result.HTMLContainsAll("one", "three"))
	assert.True(t, result.HTMLContainsAny("three", "two"))
	assert.False(t, result.HTMLContainsAny("three", "four"))
}

func TestTestRender_Error(t *testing.T) {
	boom := errors.New("render failed")
	result, err := TestRender(context.Background(), staticRenderer{err: boom})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, result)
}

func TestParseNotices(t *testing.T) {
	html := `<div class="notices" role="status">` +
		`<div class="notice notice-success">stored text #1</div>` +
		`<div class="notice notice-error">a &amp; b</div></div>`

	assert.Equal(t, []Notice{
		{Level: NoticeSuccess, Message: "stored text #1"},
		{Level: NoticeError, Message: "a & b"},
	}, parseNotices(html))

	assert.Empty(t, parseNotices(`<div class="notice notice-broken`))
}
