package database

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"weatherbot.app/internal/ports"
	"weatherbot.app/pkg/errors"
)

// JSONFileStore keeps all schedules in one JSON object keyed by chat id.
// Every operation re-reads the file so external edits are picked up.
// Writes go to a temp file in the same directory and are renamed into place.
type JSONFileStore struct {
	path string
	mu   sync.Mutex
}

type fileEntry struct {
	City string `json:"city"`
	Time string `json:"time"`
}

// NewJSONFileStore opens the store at path and creates it as "{}" when absent
func NewJSONFileStore(path string) (*JSONFileStore, error) {
	if path == "" {
		return nil, errors.NewConfigurationError("notifications file path cannot be empty", nil)
	}

	s := &JSONFileStore{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.NewStoreIOError("create notifications directory", err)
			}
		}
		if err := s.write(map[string]json.RawMessage{}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, errors.NewStoreIOError("stat notifications file", err)
	}

	return s, nil
}

func (s *JSONFileStore) Save(ctx context.Context, chatID int64, city, timeOfDay string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.read()
	if err != nil {
		return err
	}

	entry, err := json.Marshal(fileEntry{City: city, Time: timeOfDay})
	if err != nil {
		return errors.NewStoreIOError("encode notification", err)
	}
	raw[chatKey(chatID)] = entry

	return s.write(raw)
}

func (s *JSONFileStore) Get(ctx context.Context, chatID int64) (*ports.ScheduleData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.read()
	if err != nil {
		return nil, err
	}

	key := chatKey(chatID)
	entry, ok := decodeEntry(raw[key])
	if !ok {
		return nil, errors.NewNotFoundError("notification not found")
	}

	return &ports.ScheduleData{ChatID: key, City: entry.City, Time: entry.Time}, nil
}

// GetAll returns every well-formed entry. Entries that do not decode or lack a city or time are skipped.
func (s *JSONFileStore) GetAll(ctx context.Context) (map[string]ports.ScheduleData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.read()
	if err != nil {
		return nil, err
	}

	result := make(map[string]ports.ScheduleData, len(raw))
	for key, value := range raw {
		entry, ok := decodeEntry(value)
		if !ok {
			continue
		}
		result[key] = ports.ScheduleData{ChatID: key, City: entry.City, Time: entry.Time}
	}
	return result, nil
}

func (s *JSONFileStore) Delete(ctx context.Context, chatID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.read()
	if err != nil {
		return false, err
	}

	key := chatKey(chatID)
	if _, ok := raw[key]; !ok {
		return false, nil
	}
	delete(raw, key)

	if err := s.write(raw); err != nil {
		return false, err
	}
	return true, nil
}

func (s *JSONFileStore) Close() error {
	return nil
}

// Ping checks the file is readable and well-formed
func (s *JSONFileStore) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.read()
	return err
}

func (s *JSONFileStore) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, errors.NewStoreIOError("read notifications file", err)
	}

	raw := map[string]json.RawMessage{}
	if len(data) == 0 {
		return raw, nil
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewStoreIOError("decode notifications file", err)
	}
	return raw, nil
}

func (s *JSONFileStore) write(raw map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return errors.NewStoreIOError("encode notifications file", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.NewStoreIOError("create temp notifications file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.NewStoreIOError("write notifications file", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.NewStoreIOError("close notifications file", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return errors.NewStoreIOError("replace notifications file", err)
	}
	return nil
}

func decodeEntry(value json.RawMessage) (fileEntry, bool) {
	if len(value) == 0 {
		return fileEntry{}, false
	}
	var entry fileEntry
	if err := json.Unmarshal(value, &entry); err != nil {
		return fileEntry{}, false
	}
	if entry.City == "" || entry.Time == "" {
		return fileEntry{}, false
	}
	return entry, true
}

func chatKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
