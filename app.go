package reversaar

import (
	"context"
	"io"
	"log/slog"
)

// App is the application context. It is created once at startup and passed
// to whatever needs the session, the navigation signal or the event bus.
//
//	client, _ := reversaar.NewClient("http://localhost:7331")
//	app := reversaar.NewApp(client)
//	if err := app.Start(ctx); err != nil { ... }
//	texts := app.Listing(reversaar.KindText, "Texts")
type App struct {
	Session *SessionStore
	Nav     *Navigation

	api    API
	bus    *Bus
	logger *slog.Logger
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger shared by all components.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// NewApp wires the components around api.
func NewApp(api API, opts ...Option) *App {
	a := &App{api: api, bus: NewBus()}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = discardLogger()
	}
	a.Session = NewSessionStore(api, a.bus, a.logger.With("component", "session"))
	a.Nav = &Navigation{bus: a.bus}
	return a
}

// Start loads the session. Not being logged in is not an error.
func (a *App) Start(ctx context.Context) error {
	return a.Session.FetchInfo(ctx)
}

// Subscribe registers fn for change notifications.
func (a *App) Subscribe(fn func(Event)) (unsubscribe func()) {
	return a.bus.Subscribe(fn)
}

// Listing creates a listing for kind k. Close it when it is no longer
// shown.
func (a *App) Listing(k Kind, title string) *Listing {
	if title == "" {
		title = k.Title()
	}
	l := &Listing{
		kind:    k,
		title:   title,
		api:     a.api,
		session: a.Session,
		bus:     a.bus,
		logger:  a.logger.With("component", "listing", "kind", k.String()),
	}
	l.watch()
	return l
}

// LoginForm creates an empty login form.
func (a *App) LoginForm() *LoginForm {
	return &LoginForm{session: a.Session}
}

// Logout revokes the credential and clears the session.
func (a *App) Logout() error {
	return a.Session.Logout()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
