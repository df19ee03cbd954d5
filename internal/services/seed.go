package services

import (
	"time"

	"translinka-backend/internal/domain"
	"translinka-backend/pkg/logger"
)

// SeedRoutes loads demo routes into an empty catalog. Prices are RWF.
func SeedRoutes(routes *RouteService, log logger.Logger) {
	if len(routes.List()) > 0 {
		return
	}

	now := time.Now()
	samples := []domain.Route{
		{
			Origin:        "Kigali",
			Destination:   "Huye",
			DepartureTime: now.Add(2 * time.Hour),
			ArrivalTime:   now.Add(5 * time.Hour),
			Price:         7000,
			BusNumber:     "VOLCANO-101",
			TotalSeats:    50,
		},
		{
			Origin:        "Kigali",
			Destination:   "Musanze",
			DepartureTime: now.Add(4 * time.Hour),
			ArrivalTime:   now.Add(7 * time.Hour),
			Price:         8500,
			BusNumber:     "STELLA-202",
			TotalSeats:    50,
		},
		{
			Origin:        "Kigali",
			Destination:   "Rubavu",
			DepartureTime: now.Add(24 * time.Hour),
			ArrivalTime:   now.Add(27 * time.Hour),
			Price:         9500,
			BusNumber:     "VIRUNGA-303",
			TotalSeats:    50,
		},
		{
			Origin:        "Huye",
			Destination:   "Kigali",
			DepartureTime: now.Add(24 * time.Hour),
			ArrivalTime:   now.Add(27 * time.Hour),
			Price:         7000,
			BusNumber:     "HORIZON-404",
			TotalSeats:    50,
		},
		{
			Origin:        "Rusizi",
			Destination:   "Kigali",
			DepartureTime: now.Add(48 * time.Hour),
			ArrivalTime:   now.Add(54 * time.Hour),
			Price:         12000,
			BusNumber:     "TOWN-505",
			TotalSeats:    50,
		},
	}

	for _, r := range samples {
		if _, err := routes.Create(r); err != nil {
			log.Warn("seed route", "bus", r.BusNumber, "error", err.Error())
		}
	}
	log.Info("seeded demo routes", "count", len(samples))
}
