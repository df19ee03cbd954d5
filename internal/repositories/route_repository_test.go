package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"translinka-backend/internal/domain"
)

func TestRouteGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM routes WHERE id=").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "origin", "destination", "departure_time", "arrival_time", "price", "bus_number", "total_seats",
		}))

	repo := RouteRepository{DB: db}
	_, err = repo.GetByID("missing")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRouteList_ScansRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	dep := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	arr := dep.Add(3 * time.Hour)
	rows := sqlmock.NewRows([]string{
		"id", "origin", "destination", "departure_time", "arrival_time", "price", "bus_number", "total_seats",
	}).AddRow("r-1", "Kigali", "Huye", dep, arr, int64(7000), "VOLCANO-101", 50)
	mock.ExpectQuery("SELECT (.+) FROM routes ORDER BY departure_time").WillReturnRows(rows)

	repo := RouteRepository{DB: db}
	routes, err := repo.List()
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(routes) != 1 {
		t.Fatalf("expected 1 route, got %d", len(routes))
	}
	if routes[0].Price != 7000 || routes[0].TotalSeats != 50 {
		t.Fatalf("route scanned incorrectly: %+v", routes[0])
	}
}

func TestRouteInsert_WrapsDriverError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO routes").
		WillReturnError(errors.New("connection reset"))

	repo := RouteRepository{DB: db}
	err = repo.Insert(domain.Route{ID: "r-1", Origin: "Kigali", Destination: "Huye"})
	if !domain.IsInternal(err) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestUserInsert_DuplicateEmailIsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("Error 1062: Duplicate entry 'alice@example.com' for key 'uniq_email'"))

	repo := UserRepository{DB: db}
	err = repo.Insert(domain.User{ID: "u-1", Name: "Alice", Email: "Alice@Example.com"}, "hash")
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUserGetByEmail_LowercasesLookup(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "email", "phone", "password_hash", "role"}).
		AddRow("u-1", "Alice", "alice@example.com", "0780000001", "hash", "user")
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email=").
		WithArgs("alice@example.com").
		WillReturnRows(rows)

	repo := UserRepository{DB: db}
	u, hash, err := repo.GetByEmail(" Alice@Example.com ")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if u.ID != "u-1" || hash != "hash" {
		t.Fatalf("user scanned incorrectly: %+v hash=%q", u, hash)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
