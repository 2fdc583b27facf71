package reversaar

import (
	"context"
	"errors"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Notice levels.
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
	NoticeWarning = "warning"
	NoticeInfo    = "info"
)

// Notice is a user-visible message produced at the point of an action:
// a rejected login, a rejected submission, a confirmed write.
type Notice struct {
	Level   string
	Message string
}

// NoticeFor maps an action error to the message shown to the user. A nil
// error yields a zero Notice.
func NoticeFor(err error) Notice {
	var (
		auth   *AuthError
		submit *SubmissionError
		fetch  *FetchError
	)
	switch {
	case err == nil:
		return Notice{}
	case errors.As(err, &auth):
		return Notice{Level: NoticeError, Message: auth.Error()}
	case errors.As(err, &submit):
		return Notice{Level: NoticeError, Message: submit.Error()}
	case errors.As(err, &fetch):
		return Notice{Level: NoticeWarning, Message: fetch.Error()}
	case errors.Is(err, ErrInvalidDraft), errors.Is(err, ErrByteRange):
		return Notice{Level: NoticeWarning, Message: err.Error()}
	}
	return Notice{Level: NoticeError, Message: err.Error()}
}

// IsZero reports whether n carries no message.
func (n Notice) IsZero() bool {
	return n.Message == ""
}

// RenderNotices renders notices as a status list.
func RenderNotices(notices ...Notice) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString(`<div class="notices" role="status">`)
		for _, n := range notices {
			if n.IsZero() {
				continue
			}
			sb.WriteString(`<div class="notice notice-`)
			sb.WriteString(html.EscapeString(n.Level))
			sb.WriteString(`">`)
			sb.WriteString(html.EscapeString(n.Message))
			sb.WriteString(`</div>`)
		}
		sb.WriteString(`</div>`)
		_, err := io.WriteString(w, sb.String())
		return err
	})
}
