package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/hagwon-ops/academy-booking/internal/booking"
	"github.com/hagwon-ops/academy-booking/internal/config"
	"github.com/hagwon-ops/academy-booking/internal/database"
	"github.com/hagwon-ops/academy-booking/internal/handler"
	mw "github.com/hagwon-ops/academy-booking/internal/middleware"
	"github.com/hagwon-ops/academy-booking/internal/queue"
	"github.com/hagwon-ops/academy-booking/internal/repository"
	"github.com/hagwon-ops/academy-booking/internal/router"
	"github.com/hagwon-ops/academy-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables rate limiting and the
	// response cache.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and caching disabled")
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	students := repository.NewStudentRepo(db)
	courses := repository.NewCourseRepo(db)
	slots := repository.NewSlotRepo(db)
	entitlements := repository.NewEntitlementRepo(db)
	reservations := repository.NewReservationRepo(db)
	blockedDates := repository.NewBlockedDateRepo(db)

	// Booking core: transactional store, calendar policy, notifier.
	store := repository.NewBookingStore(db)
	policy := booking.NewWindowPolicy(blockedDates, booking.SystemClock{}, cfg.BookingLead)
	coord := booking.NewCoordinator(store, policy, service.NewQueueNotifier(), booking.SystemClock{})

	// Background consumer turns reservation events into notifications.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	if rdb != nil {
		e.Use(mw.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	}
	var cache echo.MiddlewareFunc
	if rdb != nil {
		cache = mw.NewRedisCache(config.LoadCacheConfig(), rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterPublic(e, handler.NewPublicHandler(courses, slots), cache)
	router.RegisterStudent(e, handler.NewStudentHandler(coord, students, reservations, entitlements), cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewAdminHandler(coord, students, courses, slots, entitlements, reservations, blockedDates), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
