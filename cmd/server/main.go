package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"devicemap/internal/api"
	"devicemap/internal/api/handlers"
	"devicemap/internal/config"
	"devicemap/internal/domain/entities"
	"devicemap/internal/geo"
	"devicemap/internal/logger"
	"devicemap/internal/metrics"
	"devicemap/internal/repository"
	"devicemap/internal/repository/file"
	"devicemap/internal/repository/memory"
	"devicemap/internal/services"
	"devicemap/internal/telemetry"
)

const shutdownTimeout = 5 * time.Second

// Options are the command-line flags. Set values override the config file.
type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"     env:"CONFIG_FILE"  description:"Path to configuration file" default:"config.yaml"`
	Port       string `short:"p" long:"port"       env:"PORT"         description:"Port or address to listen on"`
	Store      string `short:"s" long:"store"      env:"STORE_DRIVER" description:"Device store driver" choice:"file" choice:"memory"`
	DataFile   string `short:"d" long:"data-file"  env:"DATA_FILE"    description:"Devices JSON file for the file store"`
	NoSeed     bool   `long:"no-seed"              env:"NO_SEED"      description:"Do not write demo devices into a missing devices file"`
	StatsSeed  int64  `long:"stats-seed"           env:"STATS_SEED"   description:"Seed for simulated device stats (0 picks one from the clock)"`
	GinRelease bool   `long:"release"              env:"GIN_RELEASE"  description:"Run gin in release mode"`
}

func main() {
	// A missing .env file is fine; real environment variables still apply.
	_ = godotenv.Load(".env")

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	repo, err := openRepository(cfg.Store, cfg.Geo.DefaultPrecision)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("Failed to open device store")
	}

	statsSeed := opts.StatsSeed
	if statsSeed == 0 {
		statsSeed = time.Now().UnixNano()
	}

	m := metrics.New()
	deviceService := services.NewDeviceService(
		repo,
		geo.NewSpatialIndex(),
		telemetry.NewRandomGenerator(statsSeed),
		cfg.Geo,
		services.WithCountObserver(m.SetDevices),
	)
	if err := deviceService.Reindex(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to build spatial index")
	}

	if opts.GinRelease {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	router := api.NewRouter(
		handlers.NewDeviceHandler(deviceService),
		handlers.NewGeoHandler(cfg.Geo),
		m,
	)
	router.Setup(engine)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("store", cfg.Store.Driver).
			Int("precision", cfg.Geo.DefaultPrecision).
			Msg("Device map server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// apply copies the options that were set onto cfg.
func (o Options) apply(cfg *config.Config) {
	if o.Port != "" {
		cfg.Server.Port = listenAddr(o.Port)
	}
	if o.Store != "" {
		cfg.Store.Driver = o.Store
	}
	if o.DataFile != "" {
		cfg.Store.Path = o.DataFile
	}
	if o.NoSeed {
		cfg.Store.Seed = false
	}
}

// listenAddr accepts a bare port ("5000") as well as host:port.
func listenAddr(port string) string {
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

func openRepository(cfg config.StoreConfig, precision int) (repository.DeviceRepository, error) {
	var seed []*entities.Device
	if cfg.Seed {
		var err error
		if seed, err = repository.SeedDevices(time.Now(), precision); err != nil {
			return nil, err
		}
	}

	switch cfg.Driver {
	case config.StoreMemory:
		return memory.NewDeviceRepository(seed...), nil
	default:
		repo, err := file.NewDeviceRepository(cfg.Path, seed)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", repo.Path()).Msg("Using file device store")
		return repo, nil
	}
}
