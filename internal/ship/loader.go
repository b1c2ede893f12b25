package ship

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed samples/*.yaml
var samplesFS embed.FS

// Loader handles loading ship files from a directory, falling back to the
// embedded sample ships.
type Loader struct {
	Root string
}

// NewLoader creates a new ship loader. An empty root only serves samples.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// Samples loads the embedded sample ships, sorted by ID.
func Samples() ([]*Ship, error) {
	var ships []*Ship
	err := fs.WalkDir(samplesFS, "samples", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := samplesFS.ReadFile(path)
		if err != nil {
			return err
		}
		s, err := Parse(data)
		if err != nil {
			return fmt.Errorf("parsing sample %s: %w", path, err)
		}
		s.FilePath = "embedded:" + path
		ships = append(ships, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortByID(ships)
	return ships, nil
}

// LoadAll recursively scans Root and returns its ships plus any sample whose
// ID is not shadowed by a file. Invalid files are skipped.
func (l *Loader) LoadAll() ([]*Ship, error) {
	var ships []*Ship
	seen := make(map[string]bool)

	if l.Root != "" {
		err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isSupportedExtension(filepath.Ext(path)) {
				return nil
			}
			s, err := l.LoadFile(path)
			if err != nil {
				// Skip invalid files
				return nil
			}
			if !seen[s.ID] {
				seen[s.ID] = true
				ships = append(ships, s)
			}
			return nil
		})
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
		}
	}

	samples, err := Samples()
	if err != nil {
		return nil, err
	}
	for _, s := range samples {
		if !seen[s.ID] {
			seen[s.ID] = true
			ships = append(ships, s)
		}
	}

	sortByID(ships)
	return ships, nil
}

// LoadFile loads a single ship file.
func (l *Loader) LoadFile(path string) (*Ship, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing file %s: %w", path, err)
	}
	s.FilePath = path
	return s, nil
}

// LoadByID loads a specific ship by ID.
func (l *Loader) LoadByID(id string) (*Ship, error) {
	ships, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	for _, s := range ships {
		if s.ID == id {
			return s, nil
		}
	}

	return nil, fmt.Errorf("ship not found: %s", id)
}

// Resolve loads ref as a file path when it names an existing file and as a
// ship ID otherwise.
func (l *Loader) Resolve(ref string) (*Ship, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return l.LoadFile(ref)
	}
	return l.LoadByID(ref)
}

func isSupportedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, supported := range FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

func sortByID(ships []*Ship) {
	sort.Slice(ships, func(i, j int) bool {
		return ships[i].ID < ships[j].ID
	})
}
