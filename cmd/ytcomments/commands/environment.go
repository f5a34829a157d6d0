package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"
	"ytcomments/internal/chrono"
	"ytcomments/internal/restyutil"
	"ytcomments/internal/session"
	"ytcomments/internal/telemetry"
	"ytcomments/internal/youtube"
)

const debugDirFormat = "06-01-02-15-04-05"

// environment is everything a download command needs, built from the
// config file and the command line.
type environment struct {
	downloader *youtube.Downloader
	tel        telemetry.API
	clock      chrono.TimeAPI
	otel       telemetry.Telemetry
	debugDir   string
}

func newEnvironment(ctx context.Context, flags outputFlags) (*environment, error) {
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	d, err := cfg.durations()
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	otel, err := telemetry.Setup(ctx, "ytcomments", cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("setup telemetry: %w", err)
	}
	telemetry.InstrumentPerfStats(ctx)

	clock := chrono.NewStandardTime()
	tel := telemetry.SlogAPI{}

	var debug restyutil.InstrumentOutput
	var debugDir string
	if flags.debug {
		dir := filepath.Join("debug", clock.Now().Format(debugDirFormat))
		out, err := restyutil.NewFilesystemOutput(dir)
		if err != nil {
			return nil, fmt.Errorf("create debug directory: %w", err)
		}
		slog.Info("writing debug output", "dir", out.Directory())
		debug = out
		debugDir = out.Directory()
	}

	cookies := *cookiesFile
	if cookies == "" {
		cookies = cfg.CookiesFile
	}
	sess, err := session.New(session.Options{
		UserAgent:         cfg.UserAgent,
		Timeout:           d.requestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		CloudflareBypass:  cfg.CloudflareBypass,
		CookiesFile:       cookies,
		Debug:             debug,
	}, tel)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	language := flags.language
	if language == "" {
		language = cfg.Language
	}
	downloader := youtube.New(sess, tel, youtube.Options{
		Language:       language,
		Retries:        cfg.Retries,
		RetryDelay:     d.retryDelay,
		RequestTimeout: d.requestTimeout,
		PageDelay:      d.pageDelay,
		PageCacheTTL:   d.pageCacheTTL,
		DateParser:     youtube.NaturalDateParser(clock),
		Debug:          debug,
	})

	return &environment{
		downloader: downloader,
		tel:        tel,
		clock:      clock,
		otel:       otel,
		debugDir:   debugDir,
	}, nil
}

func (e *environment) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := e.otel.Shutdown(ctx)
	if err != nil {
		slog.Warn("failed to shutdown telemetry", "err", err)
	}
}
