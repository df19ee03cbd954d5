package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"translinka-backend/internal/config"
	"translinka-backend/internal/domain"
	api "translinka-backend/internal/http"
	"translinka-backend/internal/inventory"
	"translinka-backend/internal/issuance"
	"translinka-backend/internal/ledger"
	"translinka-backend/internal/repositories"
	"translinka-backend/internal/scheduler"
	"translinka-backend/internal/services"
	"translinka-backend/pkg/logger"
	"translinka-backend/pkg/metrics"
)

func main() {
	env := config.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	log := logger.New()
	defer log.Sync()

	met := metrics.New("translinka")

	// Persistence is optional: without MYSQL_DSN the service runs fully
	// in memory.
	var db *sql.DB
	if env.MySQLDSN != "" {
		var err error
		db, err = config.OpenDB(env.MySQLDSN)
		if err != nil {
			log.Fatal("connect db", "error", err.Error())
		}
		defer db.Close()
		log.Info("connected to mysql")
	} else {
		log.Warn("MYSQL_DSN not set, running without persistence")
	}

	inv := inventory.NewRegistry()
	ldg := ledger.New()

	var (
		routeStore   services.RouteStore
		bookingStore services.BookingStore
		userStore    services.UserStore = services.NewMemoryUserStore()
	)

	routeSvc := services.NewRouteService(nil, inv)
	if db != nil {
		routeRepo := repositories.RouteRepository{DB: db}
		bookingRepo := repositories.BookingRepository{DB: db}
		userRepo := repositories.UserRepository{DB: db}
		for _, ensure := range []func() error{routeRepo.EnsureSchema, bookingRepo.EnsureSchema, userRepo.EnsureSchema} {
			if err := ensure(); err != nil {
				log.Fatal("ensure schema", "error", err.Error())
			}
		}
		routeStore = routeRepo
		bookingStore = bookingRepo
		userStore = userRepo

		routeSvc = services.NewRouteService(routeStore, inv)
		restore(routeSvc, ldg, inv, routeRepo, bookingRepo, log)
	}

	backend := pickBackend(env.IssuanceBackend)
	issuer := issuance.NewRouter(backend, env.IssuanceRetries, env.IssuanceBackoff, log, met)
	log.Info("issuance backend active", "backend", backend.Name())

	bookingSvc := services.NewBookingService(routeSvc, inv, ldg, issuer, bookingStore,
		env.HoldTTL, env.MaxSeatsPerBooking, log, met)
	ticketSvc := services.NewTicketService(ldg, issuer)
	authSvc := services.NewAuthService(userStore, env.JWTSecret, env.JWTTTL)

	if env.SeedRoutes {
		services.SeedRoutes(routeSvc, log)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go scheduler.New(bookingSvc, env.SweepInterval, log).Start(ctx)

	r := api.NewRouter(api.Deps{
		Routes:   routeSvc,
		Bookings: bookingSvc,
		Tickets:  ticketSvc,
		Auth:     authSvc,
		DB:       db,
		Log:      log,
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server listening", "addr", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", "error", err.Error())
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("shutdown failed", "error", err.Error())
	}
	log.Info("server stopped")
}

func pickBackend(name string) issuance.Backend {
	if name == "solana" {
		return issuance.NewSolanaIssuer(nil)
	}
	return issuance.NewEthereumIssuer(nil)
}

// restore rebuilds the in-memory state from storage. Booked seats are
// recomputed from confirmed bookings; holds are never trusted from a
// stored snapshot, so bookings that were Pending at shutdown lost
// their hold and are marked Failed.
func restore(
	routeSvc *services.RouteService,
	ldg *ledger.Ledger,
	inv *inventory.Registry,
	routeRepo repositories.RouteRepository,
	bookingRepo repositories.BookingRepository,
	log logger.Logger,
) {
	routes, err := routeRepo.List()
	if err != nil {
		log.Fatal("load routes", "error", err.Error())
	}
	routeSvc.Load(routes)

	byID := make(map[string]domain.Route, len(routes))
	for _, r := range routes {
		byID[r.ID] = r
	}

	bookings, err := bookingRepo.List()
	if err != nil {
		log.Fatal("load bookings", "error", err.Error())
	}

	for _, b := range bookings {
		if route, ok := byID[b.RouteID]; ok {
			r := route
			b.Route = &r
		}
		if b.Status == domain.BookingStatusPending {
			b.Status = domain.BookingStatusFailed
			if err := bookingRepo.Upsert(b); err != nil {
				log.Error("persist failed booking", "booking_id", b.ID, "error", err.Error())
			}
		}
		if err := ldg.Restore(b); err != nil {
			log.Error("restore booking", "booking_id", b.ID, "error", err.Error())
			continue
		}
		if b.Status == domain.BookingStatusConfirmed {
			if route, ok := byID[b.RouteID]; ok {
				inv.ForRoute(route.ID, route.TotalSeats).RestoreBooked(b.Seats, b.ID)
			}
		}
	}
	log.Info("state restored", "routes", len(routes), "bookings", len(bookings))
}
