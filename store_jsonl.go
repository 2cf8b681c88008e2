package stakereport

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// JSONLStore persists cache entries as one JSON object per line, appended
// as they are resolved. The whole file is read once at open.
type JSONLStore struct {
	path string

	mu sync.Mutex
	f  *os.File
}

// OpenJSONLStore opens (or creates) the cache file at path.
func OpenJSONLStore(path string) (*JSONLStore, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("cannot open cache file %q: %w", path, err)
	}
	return &JSONLStore{path: path, f: f}, nil
}

// Load reads every entry of the cache file. A line that does not decode
// fails the load: a corrupt cache should be noticed, not silently refetched.
func (s *JSONLStore) Load() (map[string]TxDetail, error) {
	out := make(map[string]TxDetail)

	r, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read cache file %q: %w", s.path, err)
	}
	defer r.Close()

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		b := scanner.Bytes()
		if len(b) == 0 {
			continue // Skip empty lines
		}
		var d TxDetail
		if err := json.Unmarshal(b, &d); err != nil {
			return nil, fmt.Errorf("cache file %q line %d: %w", s.path, line, err)
		}
		out[d.TxID] = d
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read cache file %q: %w", s.path, err)
	}
	return out, nil
}

// Put appends one entry and flushes it to disk.
func (s *JSONLStore) Put(d TxDetail) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.f.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("cannot append to cache file %q: %w", s.path, err)
	}
	return s.f.Sync()
}

func (s *JSONLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}
