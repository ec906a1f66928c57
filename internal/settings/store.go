// Package settings persists the recommendation thresholds between runs.
// Stores hold the whole model.Settings value as one blob; the analyzer never
// touches them.
package settings

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ppc-cli/internal/model"
)

// Key is the blob key settings are stored under.
const Key = "ppc.settings"

// ErrNotFound is returned by blob lookups when nothing has been saved.
var ErrNotFound = eris.New("settings: not found")

// Store loads and saves settings. Load returns the store's defaults when
// nothing was saved.
type Store interface {
	Load(ctx context.Context) (model.Settings, error)
	Save(ctx context.Context, s model.Settings) error
	Reset(ctx context.Context) error
	Close() error
}

// Drivers.
const (
	DriverYAML   = "yaml"
	DriverSQLite = "sqlite"
)

// Open returns the store for driver at path. defaults is what Load returns
// when nothing was saved.
func Open(ctx context.Context, driver, path string, defaults model.Settings) (Store, error) {
	switch driver {
	case DriverYAML, "":
		f := NewFileStore(path)
		f.defaults = defaults
		return f, nil
	case DriverSQLite:
		st, err := NewSQLite(path)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close() //nolint:errcheck
			return nil, err
		}
		st.defaults = defaults
		return st, nil
	default:
		return nil, eris.Errorf("settings: unknown driver %q", driver)
	}
}

// field binds a settings key to its struct field.
type field struct {
	name string
	ptr  func(*model.Settings) *float64
}

var fields = []field{
	{"target_acos_index", func(s *model.Settings) *float64 { return &s.TargetACOSIndex }},
	{"exact_negative_lv", func(s *model.Settings) *float64 { return &s.ExactNegativeLv }},
	{"phrase_negative_lv", func(s *model.Settings) *float64 { return &s.PhraseNegativeLv }},
	{"reliability", func(s *model.Settings) *float64 { return &s.Reliability }},
	{"increase_bid_lv", func(s *model.Settings) *float64 { return &s.IncreaseBidLv }},
	{"decrease_bid_lv", func(s *model.Settings) *float64 { return &s.DecreaseBidLv }},
}

// Keys lists the settable keys in display order.
func Keys() []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.name
	}
	return out
}

// normalizeKey accepts snake_case, camelCase and kebab-case spellings.
func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	k = strings.ReplaceAll(k, "-", "_")
	if strings.Contains(k, "_") {
		return k
	}
	for _, f := range fields {
		if strings.ReplaceAll(f.name, "_", "") == k {
			return f.name
		}
	}
	return k
}

// Get returns the value of one key.
func Get(s model.Settings, key string) (float64, error) {
	name := normalizeKey(key)
	for _, f := range fields {
		if f.name == name {
			return *f.ptr(&s), nil
		}
	}
	return 0, eris.Errorf("settings: unknown key %q", key)
}

// Set parses value into key and returns the updated settings.
func Set(s model.Settings, key, value string) (model.Settings, error) {
	name := normalizeKey(key)
	for _, f := range fields {
		if f.name != name {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return s, eris.Wrapf(err, "settings: parse %s", f.name)
		}
		*f.ptr(&s) = v
		return s, nil
	}
	return s, eris.Errorf("settings: unknown key %q", key)
}

// Apply sets every key in overrides. Keys are applied in sorted order so the
// first bad key reported is stable.
func Apply(s model.Settings, overrides map[string]string) (model.Settings, error) {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		var err error
		if s, err = Set(s, k, overrides[k]); err != nil {
			return s, err
		}
	}
	return s, nil
}

// IsKey reports whether key names a setting in any accepted spelling.
func IsKey(key string) bool {
	name := normalizeKey(key)
	for _, f := range fields {
		if f.name == name {
			return true
		}
	}
	return false
}

// ParseAssignment splits "key=value".
func ParseAssignment(arg string) (key, value string, err error) {
	key, value, ok := strings.Cut(arg, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return "", "", eris.Errorf("settings: expected key=value, got %q", arg)
	}
	return key, value, nil
}
