package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/output"
)

var _ output.EventStore = (*Store)(nil)

// Store keeps every event in memory and rewrites the whole JSON file on each
// change. All access goes through the mutex.
type Store struct {
	path   string
	mu     sync.Mutex
	events []entities.Event
}

// Open reads path, treating a missing file as an empty collection.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	events, err := readFile(path)
	if err != nil {
		return nil, err
	}
	s.events = events
	log.Printf("✅ Almacén de eventos cargado (%s, %d eventos)", path, len(events))
	return s, nil
}

func readFile(path string) ([]entities.Event, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var events []entities.Event
	if err := dec.Decode(&events); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return events, nil
}

// flush writes events to a temp file next to path and renames it over path.
func (s *Store) flush(events []entities.Event) error {
	if events == nil {
		events = []entities.Event{}
	}
	data, err := json.MarshalIndent(events, "", "    ")
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write events: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync events: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) ([]entities.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.events), nil
}

func (s *Store) Save(ctx context.Context, events []entities.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := cloneAll(events)
	if err := s.flush(next); err != nil {
		return err
	}
	s.events = next
	return nil
}

func (s *Store) Append(ctx context.Context, event *entities.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(event.ID) >= 0 {
		return domain.ErrDuplicateEvent
	}
	next := append(cloneAll(s.events), *event.Clone())
	if err := s.flush(next); err != nil {
		return err
	}
	s.events = next
	return nil
}

func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return domain.ErrEventNotFound
	}
	next := make([]entities.Event, 0, len(s.events)-1)
	next = append(next, s.events[:i]...)
	next = append(next, s.events[i+1:]...)
	if err := s.flush(next); err != nil {
		return err
	}
	s.events = next
	return nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*entities.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.events[i].Clone(), nil
	}
	return nil, domain.ErrEventNotFound
}

func (s *Store) FindByMessageID(ctx context.Context, messageID string) (*entities.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if messageID == "" {
		return nil, domain.ErrEventNotFound
	}
	for i := range s.events {
		if s.events[i].MessageID == messageID {
			return s.events[i].Clone(), nil
		}
	}
	return nil, domain.ErrEventNotFound
}

// Mutate applies fn to a copy of the record and persists it; the in-memory
// state only changes once the file has been written.
func (s *Store) Mutate(ctx context.Context, id string, fn func(*entities.Event) error) (*entities.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.ErrEventNotFound
	}
	work := s.events[i].Clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	next := cloneAll(s.events)
	next[i] = *work
	if err := s.flush(next); err != nil {
		return nil, err
	}
	s.events = next
	return work.Clone(), nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.events {
		if s.events[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(events []entities.Event) []entities.Event {
	out := make([]entities.Event, len(events))
	for i := range events {
		out[i] = *events[i].Clone()
	}
	return out
}
