package inventory

import (
	"sync"
	"time"
)

// Registry holds one Inventory per route, created lazily.
type Registry struct {
	mu      sync.Mutex
	byRoute map[string]*Inventory
}

func NewRegistry() *Registry {
	return &Registry{byRoute: make(map[string]*Inventory)}
}

// ForRoute returns the inventory for routeID, creating it with
// totalSeats if it does not exist yet.
func (r *Registry) ForRoute(routeID string, totalSeats int) *Inventory {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.byRoute[routeID]
	if !ok {
		inv = New(routeID, totalSeats)
		r.byRoute[routeID] = inv
	}
	return inv
}

// Get returns the inventory for routeID if one has been created.
func (r *Registry) Get(routeID string) (*Inventory, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.byRoute[routeID]
	return inv, ok
}

// ExpireAll sweeps every route and returns the booking IDs whose holds
// were reclaimed, keyed by route.
func (r *Registry) ExpireAll(now time.Time) map[string][]string {
	r.mu.Lock()
	inventories := make(map[string]*Inventory, len(r.byRoute))
	for id, inv := range r.byRoute {
		inventories[id] = inv
	}
	r.mu.Unlock()

	expired := make(map[string][]string)
	for id, inv := range inventories {
		if bookings := inv.ExpireHolds(now); len(bookings) > 0 {
			expired[id] = bookings
		}
	}
	return expired
}
