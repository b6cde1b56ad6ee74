package assets

import (
	"sync"

	"github.com/google/uuid"

	"github.com/zeusync/arena/internal/core/observability/log"
)

// Visual is a handle to a renderable representation attached to a vehicle.
// Ready is false when the asset was not known to the catalog; the vehicle
// still exists without it.
type Visual struct {
	ID    string
	Name  string
	Ready bool
}

// Catalog resolves asset names to visual handles and tracks live handles.
type Catalog struct {
	mu     sync.Mutex
	known  map[string]struct{}
	live   map[string]Visual
	logger log.Log
}

func NewCatalog(logger log.Log, names ...string) *Catalog {
	c := &Catalog{
		known:  make(map[string]struct{}, len(names)),
		live:   make(map[string]Visual),
		logger: logger,
	}
	for _, n := range names {
		c.known[n] = struct{}{}
	}
	return c
}

func (c *Catalog) Register(name string) {
	c.mu.Lock()
	c.known[name] = struct{}{}
	c.mu.Unlock()
}

// Resolve issues a new handle for name.
func (c *Catalog) Resolve(name string) Visual {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.known[name]
	v := Visual{ID: uuid.NewString(), Name: name, Ready: ok}
	c.live[v.ID] = v
	if !ok {
		c.logger.Warn("asset not loaded", log.String("asset", name))
	}
	return v
}

// Release drops a handle. Unknown handles are ignored.
func (c *Catalog) Release(v Visual) {
	c.mu.Lock()
	delete(c.live, v.ID)
	c.mu.Unlock()
}

// Live returns the number of handles not yet released.
func (c *Catalog) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.live)
}
