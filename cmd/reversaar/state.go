package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pthm/reversaar/lib/encoding"
)

const (
	keyFile     = "key"
	sessionFile = "session"
)

// savedSession is the credential kept between invocations.
type savedSession struct {
	Server string `msgpack:"s"`
	User   string `msgpack:"u"`
	Token  string `msgpack:"t"`
}

// stateStore keeps the sealed session in a directory. The key is created on
// first use and only readable by the owner.
type stateStore struct {
	dir string
}

func (s stateStore) encoder() (*encoding.Encoder, error) {
	path := filepath.Join(s.dir, keyFile)
	key, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if key, err = encoding.NewKey(); err != nil {
			return nil, fmt.Errorf("generate key: %w", err)
		}
		if err := os.MkdirAll(s.dir, 0o700); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
		if err := os.WriteFile(path, key, 0o600); err != nil {
			return nil, fmt.Errorf("write key: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("read key: %w", err)
	}
	return encoding.NewEncoder(key)
}

// load returns the saved session for server, or nil when there is none or
// it belongs to another server.
func (s stateStore) load(server string) (*savedSession, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, sessionFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	enc, err := s.encoder()
	if err != nil {
		return nil, err
	}
	var saved savedSession
	if err := enc.Open(string(data), &saved); err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	if saved.Server != server {
		return nil, nil
	}
	return &saved, nil
}

func (s stateStore) save(saved savedSession) error {
	enc, err := s.encoder()
	if err != nil {
		return err
	}
	sealed, err := enc.Seal(saved)
	if err != nil {
		return fmt.Errorf("seal session: %w", err)
	}
	return os.WriteFile(filepath.Join(s.dir, sessionFile), []byte(sealed), 0o600)
}

func (s stateStore) clear() error {
	err := os.Remove(filepath.Join(s.dir, sessionFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
