// buma-server: conversation backend for the BUMA owl.
// Transcribes questions, generates replies, persists turns and
// synthesizes speech behind an HTTP API.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/bumakids/buma/internal/config"
	"github.com/bumakids/buma/internal/log"
	"github.com/bumakids/buma/pkg/pipeline"
	"github.com/bumakids/buma/pkg/responder"
	"github.com/bumakids/buma/pkg/store"
	"github.com/bumakids/buma/pkg/stt"
	"github.com/bumakids/buma/pkg/tts"
	"github.com/bumakids/buma/pkg/web"
)

var version = "1.0.0"

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	port := cli.StringP("port", "p", config.DefaultPort, "HTTP server port")
	logLevel := cli.StringP("log", "l", "info", "Log level (debug, info, warn, error)")
	cli.Parse()

	godotenv.Load(*envFile)
	log.Init(*logLevel)
	logger := log.With("service", web.ServiceName)

	if envPort := os.Getenv("PORT"); envPort != "" {
		*port = envPort
	}

	apiKey := config.GroqAPIKey()

	transcriber, err := stt.NewGroq(
		stt.WithAPIKey(apiKey),
		stt.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to build transcriber", "error", err)
		os.Exit(1)
	}

	resp, err := responder.NewGroq(
		responder.WithAPIKey(apiKey),
		responder.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to build responder", "error", err)
		os.Exit(1)
	}

	synth, err := tts.NewPiper(
		tts.WithVoice(config.Voice()),
		tts.WithVoicesDir(config.VoicesDir()),
		tts.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to build synthesizer", "error", err)
		os.Exit(1)
	}

	var st store.Store
	if url := config.DatabaseURL(); url != "" {
		st, err = store.NewLibSQL(url, logger)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("DATABASE_URL not set, conversations will not be saved")
		st = store.NewNoop()
	}
	defer st.Close()

	pipe := pipeline.New(transcriber, resp, synth, st, logger)
	server := web.New(pipe, synth, logger)

	fmt.Println()
	fmt.Println("🦉 BUMA backend v" + version)
	fmt.Println("   Helping kids learn languages")
	fmt.Println()

	go func() {
		addr := ":" + *port
		logger.Info("starting server", "addr", addr, "db_connected", st.Connected())
		if err := server.Listen(addr); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := server.Shutdown(); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
