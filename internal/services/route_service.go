package services

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"translinka-backend/internal/domain"
	"translinka-backend/internal/inventory"
	"translinka-backend/internal/utils"
)

// RouteStore persists new catalog entries. Nil disables persistence.
type RouteStore interface {
	Insert(route domain.Route) error
}

// RouteWithAvailability is a catalog entry with its derived free-seat
// count. Availability is computed from the inventory at read time and
// never stored on the route.
type RouteWithAvailability struct {
	domain.Route
	AvailableSeats int `json:"available_seats"`
}

// RouteService owns the in-memory route catalog.
type RouteService struct {
	mu        sync.RWMutex
	routes    map[string]domain.Route
	store     RouteStore
	inventory *inventory.Registry
}

func NewRouteService(store RouteStore, inv *inventory.Registry) *RouteService {
	return &RouteService{
		routes:    make(map[string]domain.Route),
		store:     store,
		inventory: inv,
	}
}

// Load replaces the catalog with routes from storage. Startup only.
func (s *RouteService) Load(routes []domain.Route) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range routes {
		s.routes[r.ID] = r
	}
}

// Get returns one route by ID.
func (s *RouteService) Get(routeID string) (domain.Route, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.routes[routeID]
	if !ok {
		return domain.Route{}, domain.NotFoundError{Resource: "route"}
	}
	return r, nil
}

// List returns the catalog with derived availability, ordered by
// departure time.
func (s *RouteService) List() []RouteWithAvailability {
	return s.filter(func(domain.Route) bool { return true })
}

// Search matches origin and destination case-insensitively and keeps
// routes departing on the given calendar day.
func (s *RouteService) Search(origin, destination string, date time.Time) []RouteWithAvailability {
	origin = strings.ToLower(strings.TrimSpace(origin))
	destination = strings.ToLower(strings.TrimSpace(destination))

	return s.filter(func(r domain.Route) bool {
		if origin != "" && !strings.Contains(strings.ToLower(r.Origin), origin) {
			return false
		}
		if destination != "" && !strings.Contains(strings.ToLower(r.Destination), destination) {
			return false
		}
		if !date.IsZero() && !utils.SameDay(r.DepartureTime, date) {
			return false
		}
		return true
	})
}

// Create validates and adds a new route to the catalog.
func (s *RouteService) Create(route domain.Route) (domain.Route, error) {
	if strings.TrimSpace(route.Origin) == "" || strings.TrimSpace(route.Destination) == "" {
		return domain.Route{}, domain.ValidationError{Field: "origin/destination", Msg: "required"}
	}
	if route.TotalSeats < 1 {
		return domain.Route{}, domain.ValidationError{Field: "total_seats", Msg: "must be at least 1"}
	}
	if route.Price <= 0 {
		return domain.Route{}, domain.ValidationError{Field: "price", Msg: "must be positive"}
	}
	if !route.ArrivalTime.After(route.DepartureTime) {
		return domain.Route{}, domain.ValidationError{Field: "arrival_time", Msg: "must be after departure"}
	}
	if route.ID == "" {
		route.ID = uuid.NewString()
	}

	s.mu.Lock()
	if _, exists := s.routes[route.ID]; exists {
		s.mu.Unlock()
		return domain.Route{}, domain.ConflictError{Resource: "route", Msg: "duplicate route id"}
	}
	s.routes[route.ID] = route
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Insert(route); err != nil {
			// A route the store never accepted must not be servable.
			s.mu.Lock()
			delete(s.routes, route.ID)
			s.mu.Unlock()
			return domain.Route{}, err
		}
	}
	return route, nil
}

func (s *RouteService) filter(keep func(domain.Route) bool) []RouteWithAvailability {
	s.mu.RLock()
	routes := make([]domain.Route, 0, len(s.routes))
	for _, r := range s.routes {
		if keep(r) {
			routes = append(routes, r)
		}
	}
	s.mu.RUnlock()

	now := time.Now()
	out := make([]RouteWithAvailability, 0, len(routes))
	for _, r := range routes {
		available := r.TotalSeats
		if inv, ok := s.inventory.Get(r.ID); ok {
			available = inv.Available(now)
		}
		out = append(out, RouteWithAvailability{Route: r, AvailableSeats: available})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DepartureTime.Before(out[j].DepartureTime)
	})
	return out
}
