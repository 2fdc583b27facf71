package reversaar

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Render draws the view in its current state.
func (v *ItemView) Render(ctx context.Context) templ.Component {
	v.mu.Lock()
	state, content, loadErr := v.state, v.content, v.err
	v.mu.Unlock()

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		attrs := fmt.Sprintf(`data-kind="%s" data-index="%d"`, v.kind, v.index)
		switch state {
		case Unloaded, Loading:
			_, err := fmt.Fprintf(w, `<div class="view view-loading" %s>Loading…</div>`, attrs)
			return err
		case Failed:
			_, werr := fmt.Fprintf(w, `<div class="view view-failed" %s>%s</div>`, attrs, templ.EscapeString(loadErr.Error()))
			return werr
		}
		if _, err := fmt.Fprintf(w, `<div class="view view-%s" %s>`, v.kind, attrs); err != nil {
			return err
		}
		if err := renderContent(w, content, v.URL()); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

func renderContent(w io.Writer, c Content, url string) error {
	var err error
	switch c := c.(type) {
	case Text:
		_, err = fmt.Fprintf(w, `<pre>%s</pre>`, templ.EscapeString(string(c)))
	case ByteArray:
		_, err = fmt.Fprintf(w, `<code>%s</code>`, FormatByteArray(c))
	case Audio:
		_, err = fmt.Fprintf(w, `<audio controls src="%s"></audio>`, templ.EscapeString(url))
		if err == nil {
			if info, ierr := c.Info(); ierr == nil {
				_, err = fmt.Fprintf(w, `<small>%s</small>`, templ.EscapeString(info.String()))
			}
		}
	default:
		panic(fmt.Sprintf("reversaar: unhandled content type %T", c))
	}
	return err
}

// Render draws the entries of the listing; the expanded entry includes its
// view. Entries are labelled from 1.
func (l *Listing) Render(ctx context.Context) templ.Component {
	entries := l.Entries()
	expanded := l.Expanded()

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<section class="listing" data-kind="%s"><h2>%s</h2><ol>`,
			l.kind, templ.EscapeString(l.title)); err != nil {
			return err
		}
		for _, i := range entries {
			open := expanded != nil && expanded.index == i
			class := "entry"
			if open {
				class = "entry entry-open"
			}
			if _, err := fmt.Fprintf(w, `<li class="%s" data-index="%d"><span class="label">#%d</span>`, class, i, i+1); err != nil {
				return err
			}
			if open {
				if err := expanded.Render(ctx).Render(ctx, w); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</li>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ol></section>`)
		return err
	})
}

// Render draws the input for the form's kind. The submit button is
// disabled while the draft is invalid.
func (f *Form) Render(ctx context.Context) templ.Component {
	d := f.Draft()

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<form class="new new-%s">`, d.Kind); err != nil {
			return err
		}
		var err error
		switch d.Kind {
		case KindText:
			_, err = fmt.Fprintf(w, `<textarea name="content">%s</textarea>`, templ.EscapeString(d.Input))
		case KindByteArray:
			_, err = fmt.Fprintf(w, `<input name="content" placeholder="[72, 73]" value="%s">`, templ.EscapeString(d.Input))
		case KindAudio:
			_, err = io.WriteString(w, `<input type="file" name="content" accept="audio/wav">`)
			if err == nil && d.File != nil {
				label := d.File.Name
				if info, ierr := d.File.Info(); ierr == nil {
					label += " (" + info.String() + ")"
				}
				_, err = fmt.Fprintf(w, `<small>%s</small>`, templ.EscapeString(label))
			}
		default:
			panic(fmt.Sprintf("reversaar: invalid kind %d", uint8(d.Kind)))
		}
		if err != nil {
			return err
		}
		disabled := ""
		if !d.Valid {
			disabled = " disabled"
		}
		_, err = fmt.Fprintf(w, `<button type="submit"%s>Reverse</button></form>`, disabled)
		return err
	})
}

// Render draws the login form with its inline error.
func (f *LoginForm) Render(ctx context.Context) templ.Component {
	username := f.Username()
	notice := f.Notice()

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<form class="login"><input name="username" value="%s"><input type="password" name="password">`,
			templ.EscapeString(username)); err != nil {
			return err
		}
		if !notice.IsZero() {
			if err := RenderNotices(notice).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `<button type="submit">Login</button></form>`)
		return err
	})
}
