package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/upandey0/eval-sys/internal/pipeline"
	"github.com/upandey0/eval-sys/internal/report"
	"github.com/upandey0/eval-sys/internal/setup"
)

func main() {
	startTime := time.Now()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	from := flag.String("from", "", "Start date (YYYY-MM-DD, inclusive)")
	to := flag.String("to", "", "End date (YYYY-MM-DD, inclusive)")
	output := flag.String("output", "", "Output file relative path (default: stdout)")
	format := flag.String("format", "json", "Output format. Supported formats: 'json', 'summary', 'xlsx'")

	flag.Parse()

	if *from == "" || *to == "" {
		log.Fatal().Msg("required flags -from and -to not provided")
	}

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	ctx, cancel := setupGracefulShutdown()
	defer cancel()

	cfg := setup.LoadConfig()

	deps, err := setup.Wire(ctx, cfg, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer deps.Close()

	// Open output file
	var outputFile io.Writer
	if *output == "" {
		outputFile = os.Stdout
		log.Info().Msg("Writing to stdout")
	} else {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal().Err(err).Str("file", *output).Msg("Failed to create output file")
		}
		defer f.Close()
		outputFile = f
		log.Info().Str("file", *output).Msg("Writing to output file")
	}

	// Create writer
	writer, err := report.NewWriter(outputFile, *format, deps.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create writer")
	}

	batchReport, err := deps.Runner.Run(ctx, *from, *to)
	if err != nil {
		if errors.Is(err, pipeline.ErrInvalidDate) {
			log.Fatal().Err(err).Msg("Invalid date range")
		}
		log.Fatal().Err(err).Msg("Report run failed")
	}

	if err := writer.Write(batchReport); err != nil {
		log.Fatal().Err(err).Msg("Failed to write report")
	}

	log.Info().
		Int("sessions", batchReport.TotalSessions).
		Int("processed", batchReport.Processed).
		Int("failed", batchReport.Failed).
		Float64("average_score", batchReport.AverageScore).
		Dur("duration", time.Since(startTime)).
		Msg("Report complete")
}

func setupGracefulShutdown() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Warn().Msg("Received interrupt signal, finishing current work...")
		cancel()
	}()

	return ctx, cancel
}
