package catalog

import (
	"sort"
	"sync"

	"github.com/quiverdb/quiver/dataset"
	"github.com/quiverdb/quiver/qerr"
)

// Catalog is the in-memory registry of named datasets the query surface
// resolves against. Datasets themselves are immutable; the catalog only
// guards its name table, so a RWMutex is all the coordination needed.
type Catalog struct {
	mu       sync.RWMutex
	datasets map[string]*dataset.Dataset
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{datasets: make(map[string]*dataset.Dataset)}
}

// Register adds a dataset under its own name. Registering a name twice is
// an error; use Replace to swap a dataset for a new physical layout.
func (c *Catalog) Register(d *dataset.Dataset) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.datasets[d.Name()]; ok {
		return qerr.New(qerr.InvalidArgument, "dataset %q is already registered", d.Name())
	}
	c.datasets[d.Name()] = d
	return nil
}

// Replace registers a dataset under its name, overwriting any previous
// registration. Used after repartition/coalesce to publish the new
// layout.
func (c *Catalog) Replace(d *dataset.Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.datasets[d.Name()] = d
}

// Get looks up a dataset by name.
func (c *Catalog) Get(name string) (*dataset.Dataset, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.datasets[name]
	if !ok {
		return nil, qerr.New(qerr.InvalidArgument, "dataset %q not found in catalog", name)
	}
	return d, nil
}

// Drop removes a dataset by name.
func (c *Catalog) Drop(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.datasets[name]; !ok {
		return qerr.New(qerr.InvalidArgument, "dataset %q not found in catalog", name)
	}
	delete(c.datasets, name)
	return nil
}

// Names returns the registered dataset names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.datasets))
	for name := range c.datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
