package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"cinema-ticketing/internal/app"
	"cinema-ticketing/internal/vcs"
)

var (
	version = vcs.Version()
)

func main() {
	var cfg app.Config

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", os.Getenv("CINEMA_DB_DSN"), "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max connection idle time")

	flag.StringVar(&cfg.Redis.URL, "redis-url", os.Getenv("CINEMA_REDIS_URL"), "Redis address")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 15*time.Minute, "Redis max connection idle time")

	flag.StringVar(&cfg.SMTP.Host, "smtp-host", os.Getenv("CINEMA_SMTP_HOST"), "SMTP host")
	flag.IntVar(&cfg.SMTP.Port, "smtp-port", 25, "SMTP port")
	flag.StringVar(&cfg.SMTP.Username, "smtp-username", os.Getenv("CINEMA_SMTP_USERNAME"), "SMTP username")
	flag.StringVar(&cfg.SMTP.Password, "smtp-password", os.Getenv("CINEMA_SMTP_PASSWORD"), "SMTP password")
	flag.StringVar(&cfg.SMTP.Sender, "smtp-sender", "Cinema Ticketing <no-reply@cinema-ticketing.example>", "SMTP sender")

	flag.IntVar(&cfg.Booking.MaxSeatsPerBooking, "booking-max-seats", 10, "Maximum seats per booking")
	flag.Float64Var(&cfg.Booking.LoyaltyRate, "loyalty-rate", 0.1, "Loyalty points credited per unit of currency spent")
	flag.DurationVar(&cfg.Booking.AvailabilityCacheTTL, "availability-cache-ttl", 10*time.Second, "TTL of the cached availability view")

	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", os.Getenv("OTEL_COLLECTOR_URL"), "OpenTelemetry collector URL")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	defer application.Close()

	err = application.Run()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}
