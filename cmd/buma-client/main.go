// buma-client: the listening device loop.
// Waits for the wake word, records the child's question, sends it to
// the backend and plays the owl's reply.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/bumakids/buma/internal/config"
	"github.com/bumakids/buma/internal/log"
	"github.com/bumakids/buma/pkg/device"
	"github.com/bumakids/buma/pkg/wake"
)

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	backendURL := cli.StringP("backend", "b", config.DefaultBackendURL, "Backend base URL")
	seconds := cli.IntP("seconds", "s", config.DefaultRecordSeconds, "Question recording length in seconds")
	logLevel := cli.StringP("log", "l", "info", "Log level (debug, info, warn, error)")
	cli.Parse()

	godotenv.Load(*envFile)
	log.Init(*logLevel)
	logger := log.With("service", "buma-client")

	userID := os.Getenv("BUMA_USER_ID")
	if userID == "" {
		userID = uuid.NewString()[:8]
	}

	detector, err := newDetector(logger)
	if err != nil {
		logger.Error("failed to build wake detector", "error", err)
		os.Exit(1)
	}
	defer detector.Close()

	mic, err := device.NewMic(detector.FrameLength(), detector.SampleRate(), logger)
	if err != nil {
		logger.Error("failed to open microphone", "error", err)
		os.Exit(1)
	}
	defer mic.Close()

	backend := device.NewHTTPBackend(config.BackendURL(*backendURL), logger)
	speaker := device.NewSpeaker(logger)

	recordFor := time.Duration(config.RecordSeconds(*seconds)) * time.Second
	loop := device.NewLoop(detector, mic, mic, backend, speaker, userID, recordFor, logger)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	go device.KeepWarm(ctx, backend, device.DefaultKeepWarmInterval, logger)

	fmt.Println()
	fmt.Println("🦉 BUMA is listening! Say the magic word to wake me up.")
	fmt.Printf("   user: %s, backend: %s\n", userID, config.BackendURL(*backendURL))
	fmt.Println()

	err = loop.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("client loop failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("\n👋 Goodbye! We had %d conversations today.\n", loop.Conversations())
}

// newDetector prefers Porcupine when a Picovoice access key is set and
// falls back to the keyless energy gate for development.
func newDetector(logger *slog.Logger) (wake.Detector, error) {
	if key := config.PorcupineKey(); key != "" {
		logger.Info("using porcupine wake word detector", "model", config.WakeWordPath())
		return wake.NewPorcupine(key, config.WakeWordPath())
	}
	logger.Warn("PORCUPINE_KEY not set, falling back to loudness detection")
	return wake.NewEnergy(wake.DefaultEnergyThreshold), nil
}
