package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/hpcloud/tail"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/logtap/logtap"
)

func main() {
	config := getConfig()

	tap, err := logtap.New(logtap.Config{
		URL:           config.URL,
		TenantID:      config.TenantID,
		AuthToken:     config.AuthToken,
		AppName:       config.AppName,
		BatchSize:     config.BatchSize,
		FlushInterval: config.FlushInterval,
		Labels:        config.Labels,
		DynamicLabels: map[string]logtap.LabelFunc{
			"host": func() (string, error) { return os.Hostname() },
		},
	})
	if err != nil {
		fatalLogger := zerolog.New(zerolog.NewConsoleWriter())
		fatalLogger.Fatal().Err(err).Msg("invalid configuration")
	}

	// The agent's own operational output is shipped through the tap too.
	logger := zerolog.New(zerolog.NewConsoleWriter()).
		With().Timestamp().Logger().
		Hook(tap.ZerologHook())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("url", config.URL).
		Int("files", len(config.Files)).
		Msg("starting logtap agent")

	var wg sync.WaitGroup
	for _, path := range config.Files {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			followFile(ctx, tap, logger, path)
		}(path)
	}

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	wg.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := tap.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("final flush failed")
	}
}

func followFile(ctx context.Context, tap *logtap.Tap, logger zerolog.Logger, path string) {
	t, err := tail.TailFile(path, tail.Config{
		Follow:   true,
		ReOpen:   true,
		Poll:     true,
		Location: &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
		Logger:   tail.DiscardingLogger,
	})
	if err != nil {
		logger.Error().Err(err).Str("file", path).Msg("failed to tail file")
		return
	}
	defer t.Cleanup()

	writer := tap.Writer("LOG")

	for {
		select {
		case line := <-t.Lines:
			if line == nil {
				continue
			}
			if line.Err != nil {
				logger.Error().Err(line.Err).Str("file", path).Msg("error reading file")
				continue
			}
			writer.Write([]byte(line.Text + "\n"))

		case <-ctx.Done():
			return
		}
	}
}

// ------------------------------------  code for reading config -----------------------------------------------------

type AppConfig struct {
	URL           string
	TenantID      string
	AuthToken     string
	AppName       string
	BatchSize     int
	FlushInterval time.Duration
	Labels        map[string]string
	Files         []string
}

func getConfig() AppConfig {
	url := flag.String("url", getEnv("LOKI_URL", "http://loki:3100/loki/api/v1/push"), "push endpoint URL")
	tenant := flag.String("tenant", getEnv("LOKI_TENANT", "default"), "tenant identifier (X-Scope-OrgID)")
	token := flag.String("token", getEnv("LOKI_TOKEN", ""), "bearer auth token")
	app := flag.String("app", getEnv("APP_NAME", "logtap-agent"), "app stream label")
	batchSize := flag.Int("batch-size", getEnvAsInt("BATCH_SIZE", logtap.DefaultBatchSize), "buffer length forcing an immediate flush")
	flushInterval := flag.Duration("flush-interval", getEnvAsDuration("FLUSH_INTERVAL", logtap.DefaultFlushInterval), "max wait before a buffered line is pushed")
	labelPairs := flag.StringSlice("label", nil, "static stream label as key=value (repeatable)")
	files := flag.StringSlice("file", nil, "log file to follow (repeatable)")
	flag.Parse()

	return AppConfig{
		URL:           *url,
		TenantID:      *tenant,
		AuthToken:     *token,
		AppName:       *app,
		BatchSize:     *batchSize,
		FlushInterval: *flushInterval,
		Labels:        parseLabels(*labelPairs),
		Files:         *files,
	}
}

func parseLabels(pairs []string) map[string]string {
	labels := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		if key, value, ok := strings.Cut(pair, "="); ok {
			labels[key] = value
		}
	}
	return labels
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if result, err := time.ParseDuration(value); err == nil {
			return result
		}
	}
	return defaultValue
}
