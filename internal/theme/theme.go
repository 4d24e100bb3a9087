package theme

import (
	"embed"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	yaml "gopkg.in/yaml.v3"
)

//go:embed theme.yaml
var defaultFiles embed.FS

// Theme loads board colors and UI labels from the embedded defaults and an
// optional override directory. Color values are hex strings like "#f0d9b5"
// or "#ff000080" with alpha.
type Theme struct {
	mu   sync.RWMutex
	data map[string]string // flattened dot-keys → raw value
}

// New loads the embedded default theme and then applies overrides from dir
// if provided.
func New(overrideDir string) (*Theme, error) {
	t := &Theme{data: make(map[string]string)}

	if err := t.loadEmbedded(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(overrideDir) != "" {
		if err := t.applyDir(overrideDir); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Theme) loadEmbedded() error {
	raw, err := fs.ReadFile(defaultFiles, "theme.yaml")
	if err != nil {
		return fmt.Errorf("read embedded theme: %w", err)
	}
	return t.applyYAML(raw)
}

func (t *Theme) applyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read theme dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n := e.Name()
		ext := strings.ToLower(filepath.Ext(n))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, n)
		}
	}
	sort.Strings(files)
	// Guard against duplicate keys across override files
	seen := make(map[string]string) // key -> filename
	for _, name := range files {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		flat, err := parseYAMLToFlat(b)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		for k := range flat {
			if prev, ok := seen[k]; ok {
				return fmt.Errorf("duplicate override key %q in %s and %s", k, prev, name)
			}
			seen[k] = name
		}
		t.mu.Lock()
		for k, v := range flat {
			t.data[k] = v
		}
		t.mu.Unlock()
	}
	return nil
}

func parseYAMLToFlat(b []byte) (map[string]string, error) {
	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	flat := make(map[string]string)
	if err := flattenStrings(m, "", flat); err != nil {
		return nil, err
	}
	return flat, nil
}

func (t *Theme) applyYAML(b []byte) error {
	flat, err := parseYAMLToFlat(b)
	if err != nil {
		return err
	}
	t.mu.Lock()
	for k, v := range flat {
		t.data[k] = v
	}
	t.mu.Unlock()
	return nil
}

func flattenStrings(src any, prefix string, out map[string]string) error {
	switch v := src.(type) {
	case map[string]any:
		for k, vv := range v {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if err := flattenStrings(vv, key, out); err != nil {
				return err
			}
		}
		return nil
	case map[any]any:
		tmp := make(map[string]any)
		for kk, vv := range v {
			tmp[fmt.Sprint(kk)] = vv
		}
		return flattenStrings(tmp, prefix, out)
	case string:
		if prefix == "" {
			return errors.New("string value without key prefix")
		}
		out[prefix] = v
		return nil
	case nil:
		return nil
	default:
		// Only string leaves; numbers would be ambiguous as colors
		return fmt.Errorf("unsupported value at %s: %T", prefix, v)
	}
}

// Label returns the raw string under key, or the key itself when missing so
// a typo stays visible instead of blanking the panel.
func (t *Theme) Label(key string) string {
	t.mu.RLock()
	v, ok := t.data[strings.TrimSpace(key)]
	t.mu.RUnlock()
	if !ok || strings.TrimSpace(v) == "" {
		return key
	}
	return v
}

// Color parses the hex color under key. Missing or malformed values fall
// back to an unmissable magenta.
func (t *Theme) Color(key string) color.RGBA {
	t.mu.RLock()
	v, ok := t.data[strings.TrimSpace(key)]
	t.mu.RUnlock()
	if !ok {
		return color.RGBA{R: 0xff, G: 0x00, B: 0xff, A: 0xff}
	}
	c, err := ParseHexColor(v)
	if err != nil {
		return color.RGBA{R: 0xff, G: 0x00, B: 0xff, A: 0xff}
	}
	return c
}

// ParseHexColor accepts "#rrggbb" and "#rrggbbaa".
func ParseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("bad hex color length: %q", s)
	}
	var vals [4]uint8
	vals[3] = 0xff
	for i := 0; i*2 < len(s); i++ {
		hi, ok1 := hexNibble(s[i*2])
		lo, ok2 := hexNibble(s[i*2+1])
		if !ok1 || !ok2 {
			return color.RGBA{}, fmt.Errorf("bad hex color digit: %q", s)
		}
		vals[i] = hi<<4 | lo
	}
	return color.RGBA{R: vals[0], G: vals[1], B: vals[2], A: vals[3]}, nil
}

func hexNibble(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}
