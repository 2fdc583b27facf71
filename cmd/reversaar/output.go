package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pthm/reversaar"
)

func printNotice(w io.Writer, n reversaar.Notice) {
	if n.IsZero() {
		return
	}
	fmt.Fprintf(w, "%s: %s\n", n.Level, n.Message)
}

func printCounts(w io.Writer, store *reversaar.SessionStore) {
	for _, k := range reversaar.Kinds() {
		fmt.Fprintf(w, "%-6s %d\n", k, store.Count(k))
	}
}

func printView(w io.Writer, view *reversaar.ItemView) error {
	if err := view.Err(); err != nil {
		_, werr := fmt.Fprintf(w, "%v\n", err)
		return werr
	}
	content, ok := view.Content()
	if !ok {
		_, err := fmt.Fprintln(w, view.State())
		return err
	}

	var err error
	switch c := content.(type) {
	case reversaar.Text:
		_, err = fmt.Fprintln(w, string(c))
	case reversaar.ByteArray:
		_, err = fmt.Fprintln(w, reversaar.FormatByteArray(c))
	case reversaar.Audio:
		if len(c) == 0 {
			_, err = fmt.Fprintln(w, view.URL())
			break
		}
		desc := fmt.Sprintf("%d bytes", len(c))
		if info, ierr := c.Info(); ierr == nil {
			desc = info.String()
		}
		_, err = fmt.Fprintf(w, "%s\n%s\n", view.URL(), desc)
	}
	return err
}

// indent prefixes every line written through it.
type indent struct {
	w io.Writer
}

func (i indent) Write(p []byte) (int, error) {
	lines := bytes.SplitAfter(p, []byte("\n"))
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		if _, err := i.w.Write(append([]byte("    "), line...)); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}
