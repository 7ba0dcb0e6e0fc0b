package library

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var ErrEmptyCatalog = errors.New("library catalog is empty")

type catalogFile struct {
	Clips []Record `yaml:"clips"`
}

// Load reads a YAML catalog of the form:
//
//	clips:
//	  - title: Downtown Walk
//	    duration: 24
//	    color: "#6f6bff"
//	    type: video
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read library file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) ([]Record, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse library file: %w", err)
	}
	if len(f.Clips) == 0 {
		return nil, ErrEmptyCatalog
	}

	records := make([]Record, 0, len(f.Clips))
	for i, r := range f.Clips {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("clip %d: %w", i+1, err)
		}
		r.Title = strings.TrimSpace(r.Title)
		r.Type, _ = ParseMediaType(string(r.Type))
		if r.Color == "" {
			r.Color = DefaultColor
		}
		records = append(records, r)
	}
	return records, nil
}

// Catalog is a read-mostly holder that can be swapped when the backing file
// changes.
type Catalog struct {
	mu      sync.RWMutex
	records []Record
}

func NewCatalog(records []Record) *Catalog {
	c := &Catalog{}
	c.Replace(records)
	return c
}

func (c *Catalog) Replace(records []Record) {
	cp := make([]Record, len(records))
	copy(cp, records)

	c.mu.Lock()
	c.records = cp
	c.mu.Unlock()
}

func (c *Catalog) List() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

func (c *Catalog) Get(index int) (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if index < 0 || index >= len(c.records) {
		return Record{}, false
	}
	return c.records[index], true
}

// Random picks a record the way the "add clip" button does. A nil rng uses
// the global source.
func (c *Catalog) Random(rng *rand.Rand) (Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.records) == 0 {
		return Record{}, ErrEmptyCatalog
	}
	var i int
	if rng != nil {
		i = rng.IntN(len(c.records))
	} else {
		i = rand.IntN(len(c.records))
	}
	return c.records[i], nil
}
