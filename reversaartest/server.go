// Package reversaartest provides an in-memory reversal service for tests.
//
// The server speaks the same HTTP API as the real service: users are
// registered on first login, every submission is reversed and stored under
// the next per-kind index, and items are served through a redirect to
// /userdata/<id>.
//
//	srv := reversaartest.NewServer()
//	defer srv.Close()
//	client, _ := reversaar.NewClient(srv.URL)
package reversaartest

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/pthm/reversaar/lib/wav"
)

// Payload limits enforced per kind.
const (
	MaxTextSize  = 64 << 10
	MaxAudioSize = 4 << 20
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

var kinds = []string{"text", "array", "audio"}

type user struct {
	password string
	items    map[string][]string
}

// Server is a running fake service.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[string]*user
	sessions map[string]string
	files    map[string][]byte
	holds    map[string]chan struct{}
	requests map[string]int
	reject   map[string]int
}

// NewServer starts a fake service on a local port.
func NewServer() *Server {
	s := &Server{
		users:    make(map[string]*user),
		sessions: make(map[string]string),
		files:    make(map[string][]byte),
		holds:    make(map[string]chan struct{}),
		requests: make(map[string]int),
		reject:   make(map[string]int),
	}
	s.Server = httptest.NewServer(s.Handler())
	return s
}

// Handler returns the service routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.track)

	r.Post("/api/login", s.handleLogin)
	r.Get("/api/info", s.handleInfo)
	r.Post("/api/{kind}/new", s.handleSubmit)
	r.Get("/api/{kind}/{index}", s.handleFetch)
	r.Get("/userdata/{id}", s.handleUserdata)
	return r
}

// Requests returns how many requests were made for method and path.
func (s *Server) Requests(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[method+" "+path]
}

// Hold blocks requests to path until release is called. A blocked request
// also returns when its client goes away.
func (s *Server) Hold(path string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.holds[path] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.holds, path)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// RejectSubmissions makes submissions of kind fail with status until
// called again with status 0.
func (s *Server) RejectSubmissions(kind string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.reject, kind)
		return
	}
	s.reject[kind] = status
}

// Count returns the number of stored items of kind for username.
func (s *Server) Count(username, kind string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return 0
	}
	return len(u.items[kind])
}

func (s *Server) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.Method+" "+r.URL.Path]++
		hold := s.holds[r.URL.Path]
		s.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username *string `json:"username"`
		Password *string `json:"password"`
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxTextSize+1))
	if err != nil || len(body) > MaxTextSize {
		http.Error(w, "Payload Too Large", http.StatusRequestEntityTooLarge)
		return
	}
	if err := json.Unmarshal(body, &creds); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if creds.Username == nil {
		http.Error(w, "Bad Request (missing username)", http.StatusBadRequest)
		return
	}
	if !usernamePattern.MatchString(*creds.Username) {
		http.Error(w, "Bad Request (malformed username)", http.StatusBadRequest)
		return
	}
	if creds.Password == nil {
		http.Error(w, "Bad Request (missing password)", http.StatusBadRequest)
		return
	}

	name := *creds.Username
	s.mu.Lock()
	u, ok := s.users[name]
	if !ok {
		u = &user{password: *creds.Password, items: make(map[string][]string)}
		s.users[name] = u
	}
	if u.password != *creds.Password {
		s.mu.Unlock()
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	token := uuid.NewString()
	s.sessions[token] = name
	info := s.infoLocked(name)
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: "Session", Value: token, SameSite: http.SameSiteStrictMode})
	writeJSON(w, info)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	name, ok := s.authenticate(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	s.mu.Lock()
	info := s.infoLocked(name)
	s.mu.Unlock()
	writeJSON(w, info)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if !slices.Contains(kinds, kind) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	name, ok := s.authenticate(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	s.mu.Lock()
	status := s.reject[kind]
	s.mu.Unlock()
	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}

	limit := int64(MaxTextSize)
	if kind == "audio" {
		limit = MaxAudioSize
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil || int64(len(body)) > limit {
		http.Error(w, "Payload Too Large", http.StatusRequestEntityTooLarge)
		return
	}

	reversed, status := reverse(kind, body)
	if status != http.StatusOK {
		http.Error(w, http.StatusText(status), status)
		return
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.files[id] = reversed
	u := s.users[name]
	u.items[kind] = append(u.items[kind], id)
	index := len(u.items[kind]) - 1
	s.mu.Unlock()

	writeJSON(w, map[string]int{"id": index})
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if !slices.Contains(kinds, kind) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	name, ok := s.authenticate(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "Bad Request (undefined idx)", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	items := s.users[name].items[kind]
	var id string
	if index >= 0 && index < len(items) {
		id = items[index]
	}
	s.mu.Unlock()

	if id == "" {
		http.Error(w, "Bad Request (file does not exist)", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/userdata/"+id, http.StatusFound)
}

func (s *Server) handleUserdata(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data, ok := s.files[chi.URLParam(r, "id")]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}

func (s *Server) authenticate(r *http.Request) (string, bool) {
	c, err := r.Cookie("Session")
	if err != nil || c.Value == "" {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.sessions[c.Value]
	return name, ok
}

// infoLocked builds the session record. Kinds without items are omitted,
// as the real service does.
func (s *Server) infoLocked(name string) map[string]any {
	info := map[string]any{"user": name}
	for kind, ids := range s.users[name].items {
		if len(ids) > 0 {
			info[kind] = len(ids)
		}
	}
	return info
}

func reverse(kind string, body []byte) ([]byte, int) {
	switch kind {
	case "text":
		return reverseText(body), http.StatusOK
	case "array":
		raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(body)))
		if err != nil {
			return nil, http.StatusBadRequest
		}
		slices.Reverse(raw)
		return []byte(base64.StdEncoding.EncodeToString(raw)), http.StatusOK
	case "audio":
		out, err := wav.ReverseFrames(body)
		if err != nil {
			return nil, http.StatusUnprocessableEntity
		}
		return out, http.StatusOK
	}
	return nil, http.StatusBadRequest
}

// reverseText reverses code points so multi-byte characters survive;
// invalid UTF-8 is reversed byte-wise.
func reverseText(b []byte) []byte {
	out := make([]byte, 0, len(b))
	if !utf8.Valid(b) {
		out = append(out, b...)
		slices.Reverse(out)
		return out
	}
	for len(b) > 0 {
		r, size := utf8.DecodeLastRune(b)
		out = utf8.AppendRune(out, r)
		b = b[:len(b)-size]
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
