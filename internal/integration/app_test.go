package integration_test

import (
	"log/slog"
	"os"

	"cinema-ticketing/internal/app"
	"cinema-ticketing/internal/mailer"
	"cinema-ticketing/internal/repository"
	appvalidator "cinema-ticketing/internal/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type TestApp struct {
	App          *app.Application
	DB           *pgxpool.Pool
	Mailer       *mailer.MockMailer
	ShowtimeRepo *repository.PostgresShowtimeRepository
	SeatRepo     *repository.PostgresSeatRepository
	BookingRepo  *repository.PostgresBookingRepository
	LoyaltyRepo  *repository.PostgresLoyaltyRepository
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	validator := appvalidator.NewValidator()
	mockMailer := mailer.NewMockMailer()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	showtimeRepo := repository.NewPostgresShowtimeRepository(db)
	seatRepo := repository.NewPostgresSeatRepository(db)
	bookingRepo := repository.NewPostgresBookingRepository(db)
	loyaltyRepo := repository.NewPostgresLoyaltyRepository(db)
	userRepo := repository.NewPostgresUserRepository(db)

	application, err := app.NewApp(
		cfg,
		logger,
		db,
		redisClient,
		validator,
		mockMailer,
		showtimeRepo,
		seatRepo,
		bookingRepo,
		loyaltyRepo,
		userRepo,
	)
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, err
	}

	return &TestApp{
		App:          application,
		DB:           db,
		Mailer:       mockMailer,
		ShowtimeRepo: showtimeRepo,
		SeatRepo:     seatRepo,
		BookingRepo:  bookingRepo,
		LoyaltyRepo:  loyaltyRepo,
	}, nil
}
