package repositories

import (
	"database/sql"
	"strconv"
	"strings"

	"translinka-backend/internal/domain"
)

// BookingRepository wraps DB access for bookings. The ledger stays
// authoritative at runtime; rows here are write-through copies used to
// survive restarts. Seat holds are deliberately not persisted.
type BookingRepository struct {
	DB *sql.DB
}

// EnsureSchema creates the bookings table when missing.
func (r BookingRepository) EnsureSchema() error {
	ddl := `
CREATE TABLE IF NOT EXISTS bookings (
	id VARCHAR(64) PRIMARY KEY,
	user_id VARCHAR(64) NOT NULL,
	route_id VARCHAR(64) NOT NULL,
	passenger_name VARCHAR(255) NOT NULL,
	passenger_email VARCHAR(255) NOT NULL,
	passenger_phone VARCHAR(100) NOT NULL,
	seat_numbers VARCHAR(255) NOT NULL,
	total_price BIGINT NOT NULL,
	status VARCHAR(20) NOT NULL,
	proof_token VARCHAR(128) NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	KEY idx_user (user_id),
	KEY idx_route (route_id),
	KEY idx_status (status)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := r.DB.Exec(ddl)
	return err
}

// Upsert writes the booking, replacing status and proof token on
// conflict. Called after every ledger mutation.
func (r BookingRepository) Upsert(b domain.Booking) error {
	_, err := r.DB.Exec(`
		INSERT INTO bookings (id, user_id, route_id, passenger_name, passenger_email, passenger_phone,
			seat_numbers, total_price, status, proof_token, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)
		ON DUPLICATE KEY UPDATE status=VALUES(status), proof_token=VALUES(proof_token)`,
		b.ID,
		b.UserID,
		b.RouteID,
		b.PassengerName,
		b.PassengerEmail,
		b.PassengerPhone,
		joinSeats(b.Seats),
		b.TotalPrice,
		string(b.Status),
		b.ProofToken,
		b.CreatedAt,
	)
	if err != nil {
		return domain.InternalError{Msg: "upsert booking", Err: err}
	}
	return nil
}

// List loads every stored booking.
func (r BookingRepository) List() ([]domain.Booking, error) {
	rows, err := r.DB.Query(`
		SELECT id, user_id, route_id, passenger_name, passenger_email, passenger_phone,
			seat_numbers, total_price, status, proof_token, created_at
		FROM bookings ORDER BY created_at`)
	if err != nil {
		return nil, domain.InternalError{Msg: "list bookings", Err: err}
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		var b domain.Booking
		var seats, status string
		if err := rows.Scan(
			&b.ID,
			&b.UserID,
			&b.RouteID,
			&b.PassengerName,
			&b.PassengerEmail,
			&b.PassengerPhone,
			&seats,
			&b.TotalPrice,
			&status,
			&b.ProofToken,
			&b.CreatedAt,
		); err != nil {
			return nil, domain.InternalError{Msg: "scan booking", Err: err}
		}
		b.Seats = splitSeats(seats)
		b.Status = domain.BookingStatus(status)
		out = append(out, b)
	}
	return out, rows.Err()
}

func joinSeats(seats []int) string {
	parts := make([]string, len(seats))
	for i, s := range seats {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ",")
}

func splitSeats(raw string) []int {
	var out []int
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if n, err := strconv.Atoi(p); err == nil {
			out = append(out, n)
		}
	}
	return out
}
