package standards

import "sync"

// resolveCache guarda por proceso las máquinas compatibles ya resueltas con
// su estándar. Antes esto vivía repartido en el estado del frontend y se
// refrescaba por re-render; acá es un objeto explícito con invalidación
// explícita.
type resolveCache struct {
	mu      sync.Mutex
	entries map[int64][]MachineStandard
}

func newResolveCache() *resolveCache {
	return &resolveCache{entries: make(map[int64][]MachineStandard)}
}

func (c *resolveCache) Get(processID int64) ([]MachineStandard, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ms, ok := c.entries[processID]
	return ms, ok
}

func (c *resolveCache) Put(processID int64, ms []MachineStandard) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[processID] = ms
}

// Invalidate bota solo la entrada del proceso afectado, nunca el cache entero.
func (c *resolveCache) Invalidate(processID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, processID)
}
