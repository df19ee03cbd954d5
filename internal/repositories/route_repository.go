package repositories

import (
	"database/sql"
	"time"

	"translinka-backend/internal/domain"
)

// RouteRepository wraps DB access for the route catalog.
type RouteRepository struct {
	DB *sql.DB
}

// EnsureSchema creates the routes table when missing.
func (r RouteRepository) EnsureSchema() error {
	ddl := `
CREATE TABLE IF NOT EXISTS routes (
	id VARCHAR(64) PRIMARY KEY,
	origin VARCHAR(255) NOT NULL,
	destination VARCHAR(255) NOT NULL,
	departure_time DATETIME NOT NULL,
	arrival_time DATETIME NOT NULL,
	price BIGINT NOT NULL,
	bus_number VARCHAR(50) NOT NULL,
	total_seats INT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_origin_destination (origin, destination)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := r.DB.Exec(ddl)
	return err
}

// Insert stores a new route.
func (r RouteRepository) Insert(route domain.Route) error {
	_, err := r.DB.Exec(`
		INSERT INTO routes (id, origin, destination, departure_time, arrival_time, price, bus_number, total_seats)
		VALUES (?,?,?,?,?,?,?,?)`,
		route.ID,
		route.Origin,
		route.Destination,
		route.DepartureTime,
		route.ArrivalTime,
		route.Price,
		route.BusNumber,
		route.TotalSeats,
	)
	if err != nil {
		return domain.InternalError{Msg: "insert route", Err: err}
	}
	return nil
}

// GetByID loads one route.
func (r RouteRepository) GetByID(id string) (domain.Route, error) {
	var route domain.Route
	err := r.DB.QueryRow(`
		SELECT id, origin, destination, departure_time, arrival_time, price, bus_number, total_seats
		FROM routes WHERE id=? LIMIT 1`, id).Scan(
		&route.ID,
		&route.Origin,
		&route.Destination,
		&route.DepartureTime,
		&route.ArrivalTime,
		&route.Price,
		&route.BusNumber,
		&route.TotalSeats,
	)
	if err == sql.ErrNoRows {
		return domain.Route{}, domain.NotFoundError{Resource: "route", Err: err}
	}
	if err != nil {
		return domain.Route{}, domain.InternalError{Msg: "query route", Err: err}
	}
	return route, nil
}

// List loads the whole catalog ordered by departure.
func (r RouteRepository) List() ([]domain.Route, error) {
	rows, err := r.DB.Query(`
		SELECT id, origin, destination, departure_time, arrival_time, price, bus_number, total_seats
		FROM routes ORDER BY departure_time`)
	if err != nil {
		return nil, domain.InternalError{Msg: "list routes", Err: err}
	}
	defer rows.Close()

	var out []domain.Route
	for rows.Next() {
		var route domain.Route
		if err := rows.Scan(
			&route.ID,
			&route.Origin,
			&route.Destination,
			&route.DepartureTime,
			&route.ArrivalTime,
			&route.Price,
			&route.BusNumber,
			&route.TotalSeats,
		); err != nil {
			return nil, domain.InternalError{Msg: "scan route", Err: err}
		}
		out = append(out, route)
	}
	return out, rows.Err()
}

// CountAfter reports how many routes depart after the given instant.
// Used to decide whether the seed data should be applied.
func (r RouteRepository) CountAfter(t time.Time) (int, error) {
	var n int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM routes WHERE departure_time > ?`, t).Scan(&n); err != nil {
		return 0, domain.InternalError{Msg: "count routes", Err: err}
	}
	return n, nil
}
