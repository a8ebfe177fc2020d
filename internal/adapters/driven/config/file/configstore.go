package file

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/infinityjp-maker/urms-sync/internal/core/ports/driven"
)

// DefaultDirName is the configuration directory under the user's home.
const DefaultDirName = ".urms-sync"

// Compile-time interface check.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is a TOML-file implementation of driven.ConfigStore.
// Reads pick up external edits: the file is reloaded whenever its
// modification time changes, so another process (or a text editor)
// changing a value takes effect on the next read.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
	loadedAt time.Time
}

// NewConfigStore creates a TOML-based config store. If configDir is
// empty it defaults to ~/.urms-sync.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, DefaultDirName)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		data:     make(map[string]any),
	}

	if err := s.Load(); err != nil {
		return nil, err
	}

	return s, nil
}

// Get returns the raw value stored under key, or nil.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.reloadIfChanged()

	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok
}

// GetString returns the value under key as a string.
func (s *ConfigStore) GetString(key string) string {
	val, ok := s.Get(key)
	if !ok {
		return ""
	}

	str, ok := val.(string)
	if !ok {
		return ""
	}
	return str
}

// GetInt returns the value under key as an int.
func (s *ConfigStore) GetInt(key string) int {
	val, ok := s.Get(key)
	if !ok {
		return 0
	}

	// go-toml decodes integers as int64
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// GetStringSlice returns the value under key as a string slice.
func (s *ConfigStore) GetStringSlice(key string) []string {
	val, ok := s.Get(key)
	if !ok {
		return nil
	}

	// go-toml decodes arrays as []any
	switch v := val.(type) {
	case []string:
		return v
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	default:
		return nil
	}
}

// Set writes key and persists the file immediately.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return s.save()
}

// save writes the TOML file; caller holds the lock.
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(s.data)
	if err != nil {
		return err
	}

	// Restricted permissions: the file can name private calendars.
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return err
	}

	if info, err := os.Stat(s.filePath); err == nil {
		s.loadedAt = info.ModTime()
	}
	return nil
}

// Load reads configuration from the TOML file. A missing file is an
// empty configuration, not an error.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *ConfigStore) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = make(map[string]any)
			s.loadedAt = time.Time{}
			return nil
		}
		return err
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return err
	}
	if loaded == nil {
		loaded = make(map[string]any)
	}

	// Flatten nested tables into dot-notation keys for easier access
	s.data = flattenMap(loaded, "")
	if info, err := os.Stat(s.filePath); err == nil {
		s.loadedAt = info.ModTime()
	}
	return nil
}

// reloadIfChanged re-reads the file when its mtime moved past the last
// load. A file that fails to parse leaves the previous data in place.
func (s *ConfigStore) reloadIfChanged() {
	info, err := os.Stat(s.filePath)
	if err != nil {
		return
	}

	s.mu.RLock()
	fresh := !info.ModTime().After(s.loadedAt)
	s.mu.RUnlock()
	if fresh {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !info.ModTime().After(s.loadedAt) {
		return
	}
	_ = s.load()
}

// flattenMap converts nested maps to dot-notation keys.
// {"a": {"b": 1}} flattens to {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			for k, v := range flattenMap(nested, fullKey) {
				result[k] = v
			}
		} else {
			result[fullKey] = value
		}
	}

	return result
}

// Path reports the configuration file location.
func (s *ConfigStore) Path() string {
	return s.filePath
}
