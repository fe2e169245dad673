package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/m04kA/SMC-SalonBookingService/internal/config"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
)

// Context общие зависимости подкоманд
type Context struct {
	Config *config.Config
	Log    *logger.Logger
}

var CLI struct {
	Config string `help:"Config file path." type:"path" default:"config.toml"`

	Serve        ServeCmd        `cmd:"" help:"Run the HTTP API." default:"1"`
	Migrate      MigrateCmd      `cmd:"" help:"Apply database migrations."`
	Availability AvailabilityCmd `cmd:"" help:"Print bookable windows for a service on a date."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("salon-booking"),
		kong.Description("Salon slot lifecycle service: availability, booking wizard and staff agenda"),
		kong.UsageOnError(),
	)

	// Загружаем конфигурацию
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Configuration loaded from %s (data_source=%s)", CLI.Config, cfg.DataSource)

	if err := kctx.Run(&Context{Config: cfg, Log: log}); err != nil {
		log.Error("Command %s failed: %v", kctx.Command(), err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
