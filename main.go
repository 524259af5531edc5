package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/stuartleeks/home-dash/weather-eink/config"
	"github.com/stuartleeks/home-dash/weather-eink/logger"
	"github.com/stuartleeks/home-dash/weather-eink/telemetry"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitConfig = 2

	telemetryFlushTimeout = 5 * time.Second
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	_, err := os.Stat(".env")
	if err == nil {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading .env file: %s\n", err)
			return exitConfig
		}
	}

	fs := config.NewFlagSet(args[0])
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return exitConfig
	}
	conf, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return exitConfig
	}

	log := logger.New(conf.LogLevel)
	tracker := telemetry.New(log, telemetry.Options{
		InstrumentationKey: config.GetApplicationInsightsInstrumentationKey(),
	})
	defer tracker.Close(telemetryFlushTimeout)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gen, err := NewGenerator(log, GeneratorOptions{Config: conf, Tracker: tracker})
	if err != nil {
		log.Error("failed to set up", logger.Err(err))
		return exitCode(err)
	}
	if _, err := gen.Run(ctx); err != nil {
		tracker.TrackError(err)
		log.Error("failed to generate weather image", "run", tracker.RunID(), logger.Err(err))
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	var confErr *config.ConfigError
	if errors.As(err, &confErr) {
		return exitConfig
	}
	return exitFailed
}
