package reversaartest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func login(t *testing.T, srv *Server, c *http.Client, body string) *http.Response {
	t.Helper()
	resp, err := c.Post(srv.URL+"/api/login", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServer_Login(t *testing.T) {
	srv := NewServer()
	defer srv.Close()
	c := newClient(t)

	resp := login(t, srv, c, `{"username":"alice","password":"pw"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var info map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, map[string]any{"user": "alice"}, info)

	tests := []struct {
		body string
		want int
	}{
		{`{"username":"alice","password":"other"}`, http.StatusUnauthorized},
		{`{"password":"pw"}`, http.StatusBadRequest},
		{`{"username":"al ice","password":"pw"}`, http.StatusBadRequest},
		{`{"username":"bob"}`, http.StatusBadRequest},
		{`not json`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, login(t, srv, newClient(t), tt.body).StatusCode, tt.body)
	}
}

func TestServer_SubmitAndFetch(t *testing.T) {
	srv := NewServer()
	defer srv.Close()
	c := newClient(t)
	login(t, srv, c, `{"username":"alice","password":"pw"}`)

	resp, err := c.Post(srv.URL+"/api/array/new", "application/octet-stream", strings.NewReader("AQID"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var receipt map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&receipt))
	assert.Equal(t, 0, receipt["id"])

	get, err := c.Get(srv.URL + "/api/array/0")
	require.NoError(t, err)
	defer get.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(get.Body)
	require.NoError(t, err)
	assert.Equal(t, "AwIB", buf.String())
	assert.Equal(t, 1, srv.Requests(http.MethodGet, "/api/array/0"))
	assert.Equal(t, 1, srv.Count("alice", "array"))

	missing, err := c.Get(srv.URL + "/api/array/1")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusBadRequest, missing.StatusCode)
}

func TestServer_Unauthenticated(t *testing.T) {
	srv := NewServer()
	defer srv.Close()
	c := newClient(t)

	for _, path := range []string{"/api/info", "/api/text/0"} {
		resp, err := c.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestServer_Limits(t *testing.T) {
	srv := NewServer()
	defer srv.Close()
	c := newClient(t)
	login(t, srv, c, `{"username":"alice","password":"pw"}`)

	resp, err := c.Post(srv.URL+"/api/text/new", "text/plain", strings.NewReader(strings.Repeat("x", MaxTextSize+1)))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	resp, err = c.Post(srv.URL+"/api/audio/new", "application/octet-stream", strings.NewReader("not a wav"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestReverseText(t *testing.T) {
	assert.Equal(t, "olléh", string(reverseText([]byte("héllo"))))
	assert.Equal(t, "", string(reverseText(nil)))
	assert.Equal(t, []byte{0xff, 'b', 'a'}, reverseText([]byte{'a', 'b', 0xff}))
}
