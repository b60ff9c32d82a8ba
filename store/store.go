// Package store persists the simulator's three JSON records: the accounts
// keyed by username, the last active user, and the first-run flag.
//
// The layout is deliberately human readable: one data directory holding
// portfolio.json, last_user.json and first_run.json.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/Gxlcyy/TradeLab"
)

const (
	portfolioFile = "portfolio.json"
	lastUserFile  = "last_user.json"
	firstRunFile  = "first_run.json"
)

// Store is the durable key-value persistence for portfolio accounts.
//
// A single process-wide mutex guards every read-modify-write sequence, so a
// load-mutate-save performed through Update is one atomic critical section
// even if the host happens to start several operations against the same
// directory.
type Store struct {
	mu  sync.Mutex
	dir string
}

// Open returns a store rooted at dir, creating the directory if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create data directory %q: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory the store persists into.
func (s *Store) Dir() string { return s.dir }

// readJSON decodes a JSON file into data, reporting fs.ErrNotExist untouched
// so callers can substitute defaults.
func (s *Store) readJSON(name string, data any) error {
	content, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}
	return json.Unmarshal(content, data)
}

// writeJSON encodes data into an indented JSON file so the records stay
// hand-editable.
func (s *Store) writeJSON(name string, data any) error {
	content, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, name), content, 0644)
}

// loadAccounts reads and validates every persisted account. Unreadable
// files or records fall back to defaults rather than failing the caller.
func (s *Store) loadAccounts() map[string]*tradelab.Account {
	raw := make(map[string]json.RawMessage)
	if err := s.readJSON(portfolioFile, &raw); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("warning: unreadable %s, starting empty: %v", portfolioFile, err)
		}
		return make(map[string]*tradelab.Account)
	}

	accounts := make(map[string]*tradelab.Account, len(raw))
	for username, record := range raw {
		account, err := tradelab.DecodeAccount(username, record)
		if err != nil {
			log.Printf("warning: %v", err)
		}
		accounts[username] = account
	}
	return accounts
}

// saveAccounts writes the whole account map back to disk.
func (s *Store) saveAccounts(accounts map[string]*tradelab.Account) error {
	return s.writeJSON(portfolioFile, accounts)
}

// LoadAll returns every persisted account keyed by username.
func (s *Store) LoadAll() map[string]*tradelab.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadAccounts()
}

// Usernames returns the known usernames in alphabetical order.
func (s *Store) Usernames() []string {
	accounts := s.LoadAll()
	names := make([]string, 0, len(accounts))
	for name := range accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the account for username, or ErrUserNotFound.
func (s *Store) Get(username string) (*tradelab.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.loadAccounts()[username]
	if !ok {
		return nil, fmt.Errorf("%q: %w", username, tradelab.ErrUserNotFound)
	}
	return account, nil
}

// Ensure returns the account for username, creating and persisting a fresh
// one when it does not exist yet.
func (s *Store) Ensure(username string) (*tradelab.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	accounts := s.loadAccounts()
	if account, ok := accounts[username]; ok {
		return account, nil
	}
	account := tradelab.NewAccount(username)
	accounts[username] = account
	if err := s.saveAccounts(accounts); err != nil {
		return nil, err
	}
	return account, nil
}

// Save persists the account under username.
func (s *Store) Save(username string, account *tradelab.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	accounts := s.loadAccounts()
	accounts[username] = account
	return s.saveAccounts(accounts)
}

// Update runs fn on the account for username inside the store's critical
// section, persisting the result only when fn succeeds. This is the
// load-mutate-save contract used by buy, sell and reset: either the mutation
// fully commits or nothing is written.
func (s *Store) Update(username string, fn func(*tradelab.Account) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	accounts := s.loadAccounts()
	account, ok := accounts[username]
	if !ok {
		return fmt.Errorf("%q: %w", username, tradelab.ErrUserNotFound)
	}
	if err := fn(account); err != nil {
		return err
	}
	return s.saveAccounts(accounts)
}

// Reset returns the account for username to its creation state.
func (s *Store) Reset(username string) error {
	return s.Update(username, func(account *tradelab.Account) error {
		account.Reset()
		return nil
	})
}

// LastUser returns the last active username, or "" when none is recorded.
func (s *Store) LastUser() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var record struct {
		LastUser string `json:"last_user"`
	}
	if err := s.readJSON(lastUserFile, &record); err != nil {
		return ""
	}
	return record.LastUser
}

// SetLastUser records the last active username.
func (s *Store) SetLastUser(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(lastUserFile, struct {
		LastUser string `json:"last_user"`
	}{LastUser: username})
}

// IsFirstRun reports whether the application has never completed a first
// run on this data directory.
func (s *Store) IsFirstRun() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var record struct {
		FirstRun *bool `json:"first_run"`
	}
	if err := s.readJSON(firstRunFile, &record); err != nil || record.FirstRun == nil {
		return true
	}
	return *record.FirstRun
}

// SetFirstRunDone marks the first run as completed.
func (s *Store) SetFirstRunDone() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(firstRunFile, struct {
		FirstRun bool `json:"first_run"`
	}{FirstRun: false})
}
