package reversaar

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pthm/reversaar/reversaartest"
)

// stubAPI is an in-process API whose behavior is set per test.
type stubAPI struct {
	mu      sync.Mutex
	info    func(ctx context.Context) (*Session, error)
	login   func(ctx context.Context, username, password string) (*Session, error)
	submit  func(ctx context.Context, c Content) (Receipt, error)
	fetch   func(ctx context.Context, k Kind, index int) ([]byte, error)
	fetches int
	logouts int
}

func (s *stubAPI) Info(ctx context.Context) (*Session, error) {
	if s.info == nil {
		return nil, nil
	}
	return s.info(ctx)
}

func (s *stubAPI) Login(ctx context.Context, username, password string) (*Session, error) {
	if s.login == nil {
		return &Session{User: username, Counts: map[Kind]int{}}, nil
	}
	return s.login(ctx, username, password)
}

func (s *stubAPI) Submit(ctx context.Context, c Content) (Receipt, error) {
	if s.submit == nil {
		return Receipt{}, nil
	}
	return s.submit(ctx, c)
}

func (s *stubAPI) Fetch(ctx context.Context, k Kind, index int) ([]byte, error) {
	s.mu.Lock()
	s.fetches++
	s.mu.Unlock()
	if s.fetch == nil {
		return nil, nil
	}
	return s.fetch(ctx, k, index)
}

func (s *stubAPI) ItemURL(k Kind, index int) string {
	return "http://stub" + k.itemPath(index)
}

func (s *stubAPI) Logout() error {
	s.mu.Lock()
	s.logouts++
	s.mu.Unlock()
	return nil
}

func (s *stubAPI) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

// stubApp returns an App logged in as "alice" with the given counts.
func stubApp(t *testing.T, api *stubAPI, counts map[Kind]int) *App {
	t.Helper()
	api.info = func(context.Context) (*Session, error) {
		return &Session{User: "alice", Counts: counts}, nil
	}
	app := NewApp(api)
	require.NoError(t, app.Start(context.Background()))
	return app
}

// serverApp starts a fake service and returns an App logged in as "alice".
func serverApp(t *testing.T) (*reversaartest.Server, *Client, *App) {
	t.Helper()
	srv := reversaartest.NewServer()
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL)
	require.NoError(t, err)
	app := NewApp(client)
	require.NoError(t, app.Start(context.Background()))
	require.NoError(t, app.Session.Login(context.Background(), "alice", "secret"))
	return srv, client, app
}

// seed submits n text items through the client.
func seed(t *testing.T, client *Client, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := client.Submit(context.Background(), Text(string(rune('a'+i))))
		require.NoError(t, err)
	}
}
