package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pthm/reversaar"
	"github.com/pthm/reversaar/internal/config"
	"github.com/pthm/reversaar/internal/observability"
)

// session is what every command runs with.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	client *reversaar.Client
	app    *reversaar.App
	state  stateStore
	args   []string
	opts   options

	stdin  io.Reader
	stdout io.Writer
}

type command func(ctx context.Context, s *session) error

func run(ctx context.Context, name string, args []string, cmd command) error {
	positional, opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.values["--config"])
	if err != nil {
		return err
	}
	level, err := observability.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := observability.New(os.Stderr, level, cfg.Log.Format)

	client, err := reversaar.NewClient(cfg.Server,
		reversaar.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		reversaar.WithClientLogger(logger.With("component", "client")),
	)
	if err != nil {
		return err
	}

	state := stateStore{dir: cfg.StateDir}
	saved, err := state.load(cfg.Server)
	if err != nil {
		logger.Warn("ignoring saved session", "error", err)
	} else if saved != nil {
		client.SetCredential(saved.Token)
	}

	app := reversaar.NewApp(client, reversaar.WithLogger(logger))
	unsubscribe := app.Subscribe(func(e reversaar.Event) {
		logger.Debug("event", "name", e.Name, "kind", e.Kind.String(), "index", e.Index)
	})
	defer unsubscribe()
	app.Nav.Set(name)

	return cmd(ctx, &session{
		cfg:    cfg,
		logger: logger,
		client: client,
		app:    app,
		state:  state,
		args:   positional,
		opts:   opts,
		stdin:  os.Stdin,
		stdout: os.Stdout,
	})
}

// start loads the session and fails unless someone is logged in.
func (s *session) start(ctx context.Context) error {
	if err := s.app.Start(ctx); err != nil {
		return err
	}
	if !s.app.Session.LoggedIn() {
		return fmt.Errorf("%w: run 'reversaar login <user>' first", reversaar.ErrNotAuthenticated)
	}
	return nil
}

func runLogin(ctx context.Context, s *session) error {
	if len(s.args) != 1 {
		return errors.New("usage: reversaar login <user> [--password <pw>]")
	}

	form := s.app.LoginForm()
	form.SetUsername(s.args[0])
	if !form.UsernameValid() {
		return errors.New("username must not be empty")
	}

	password, err := s.password()
	if err != nil {
		return err
	}
	form.SetPassword(password)
	if !form.PasswordValid() {
		return errors.New("password must not be empty")
	}

	if err := form.Submit(ctx); err != nil {
		return err
	}

	user, _ := s.app.Session.User()
	if err := s.state.save(savedSession{
		Server: s.cfg.Server,
		User:   user,
		Token:  s.client.Credential(),
	}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	printNotice(s.stdout, reversaar.Notice{Level: reversaar.NoticeSuccess, Message: "logged in as " + user})
	printCounts(s.stdout, s.app.Session)
	return nil
}

func (s *session) password() (string, error) {
	if pw, ok := s.opts.values["--password"]; ok {
		return pw, nil
	}
	if pw := os.Getenv("REVERSAAR_PASSWORD"); pw != "" {
		return pw, nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(s.stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runLogout(ctx context.Context, s *session) error {
	if err := s.app.Logout(); err != nil {
		return err
	}
	if err := s.state.clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	printNotice(s.stdout, reversaar.Notice{Level: reversaar.NoticeInfo, Message: "logged out"})
	return nil
}

func runInfo(ctx context.Context, s *session) error {
	if err := s.start(ctx); err != nil {
		return err
	}
	user, _ := s.app.Session.User()
	fmt.Fprintf(s.stdout, "user   %s\n", user)
	printCounts(s.stdout, s.app.Session)
	return nil
}

func runSubmit(ctx context.Context, s *session) error {
	if len(s.args) != 2 {
		return errors.New("usage: reversaar submit <kind> <value|file>")
	}
	k, err := reversaar.ParseKind(s.args[0])
	if err != nil {
		return err
	}
	if err := s.start(ctx); err != nil {
		return err
	}

	listing := s.app.Listing(k, "")
	form := listing.NewForm()
	value := s.args[1]

	switch k {
	case reversaar.KindAudio:
		data, err := os.ReadFile(value)
		if err != nil {
			return fmt.Errorf("read audio: %w", err)
		}
		file := &reversaar.AudioFile{Name: filepath.Base(value), Data: data}
		if info, err := file.Info(); err == nil {
			s.logger.Info("selected audio", "file", file.Name, "format", info.String())
		}
		if err := form.SelectFile(file); err != nil {
			return err
		}
	default:
		if value == "-" {
			data, err := io.ReadAll(s.stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			value = string(data)
		}
		if err := form.SetInput(value); err != nil {
			return err
		}
	}

	if !form.Valid() && k == reversaar.KindByteArray {
		if _, err := reversaar.ParseByteArray(value); err != nil {
			return err
		}
	}
	id, err := form.Send(ctx)
	if err != nil {
		printNotice(os.Stderr, reversaar.NoticeFor(err))
		return err
	}
	printNotice(s.stdout, reversaar.Notice{
		Level:   reversaar.NoticeSuccess,
		Message: fmt.Sprintf("stored %s #%d", k, id+1),
	})

	view := listing.Expanded()
	if view == nil {
		return nil
	}
	if err := view.Load(ctx); err != nil {
		return err
	}
	return printView(s.stdout, view)
}

func runList(ctx context.Context, s *session) error {
	if len(s.args) != 1 {
		return errors.New("usage: reversaar list <kind> [--open <n>] [--html]")
	}
	k, err := reversaar.ParseKind(s.args[0])
	if err != nil {
		return err
	}
	if err := s.start(ctx); err != nil {
		return err
	}

	listing := s.app.Listing(k, "")
	if raw, ok := s.opts.values["--open"]; ok {
		index, err := parseIndex(raw)
		if err != nil {
			return err
		}
		view, err := listing.Expand(index)
		if err != nil {
			return err
		}
		// A failed load is shown inline.
		_ = view.Load(ctx)
	}

	if s.opts.flags["--html"] {
		return listing.Render(ctx).Render(ctx, s.stdout)
	}

	fmt.Fprintf(s.stdout, "%s (%d)\n", listing.Title(), listing.Count())
	expanded := listing.Expanded()
	for _, i := range listing.Entries() {
		fmt.Fprintf(s.stdout, "  #%d\n", i+1)
		if expanded != nil && expanded.Index() == i {
			if err := printView(indent{s.stdout}, expanded); err != nil {
				return err
			}
		}
	}
	return nil
}

func runGet(ctx context.Context, s *session) error {
	if len(s.args) != 2 {
		return errors.New("usage: reversaar get <kind> <index> [--out <file>]")
	}
	k, err := reversaar.ParseKind(s.args[0])
	if err != nil {
		return err
	}
	index, err := parseIndex(s.args[1])
	if err != nil {
		return err
	}
	if err := s.start(ctx); err != nil {
		return err
	}

	view, err := s.app.Listing(k, "").Expand(index)
	if err != nil {
		return err
	}
	if err := view.Load(ctx); err != nil {
		return err
	}
	content, _ := view.Content()
	if k == reversaar.KindAudio {
		data, err := s.client.Fetch(ctx, k, index)
		if err != nil {
			return err
		}
		content = reversaar.Audio(data)
	}

	out, ok := s.opts.values["--out"]
	if !ok {
		if a, isAudio := content.(reversaar.Audio); isAudio {
			_, err := s.stdout.Write(a)
			return err
		}
		return printView(s.stdout, view)
	}

	var data []byte
	switch c := content.(type) {
	case reversaar.Text:
		data = []byte(c)
	case reversaar.ByteArray:
		data = c.Bytes()
	case reversaar.Audio:
		data = c
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	printNotice(s.stdout, reversaar.Notice{
		Level:   reversaar.NoticeSuccess,
		Message: fmt.Sprintf("wrote %s #%d to %s", k, index+1, out),
	})
	return nil
}

// parseIndex converts a 1-based entry label to an index.
func parseIndex(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(raw, "#"))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid entry %q: must be a number from 1", raw)
	}
	return n - 1, nil
}
