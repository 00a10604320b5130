package main

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"

	"github.com/lushtech/eldercare-web/pkg/config"
	"github.com/lushtech/eldercare-web/pkg/repository"
	"github.com/lushtech/eldercare-web/pkg/router"
	"github.com/lushtech/eldercare-web/pkg/webapp"
	"github.com/lushtech/eldercare-web/server"
)

// Opts with all CLI options
type Opts struct {
	Config  string `short:"c" long:"config" env:"CONFIG" description:"config file, defaults used if empty"`
	Listen  string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`
	BaseURL string `long:"base-url" env:"BASE_URL" description:"base path of the web ui, overrides config"`
	DSN     string `long:"dsn" env:"DSN" description:"settings database dsn, overrides config"`
	Frame   string `long:"frame" env:"FRAME" description:"jpeg or png image shown as the live frame on startup"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if opts.NoColor {
		color.NoColor = true
	}
	SetupLog(opts.Debug)

	log.Printf("[INFO] starting eldercare-web version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	// handle termination signals
	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		select {
		case <-sigChan:
			log.Print("[INFO] termination signal received")
			cancel()
		case <-ctx.Done():
		}
		return nil
	})

	g.Go(func() error {
		defer cancel()
		return run(ctx, opts)
	})

	if err := g.Wait(); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

// run wires configuration, settings store, application context and server, blocks until ctx is done
func run(ctx context.Context, opts Opts) error {
	cfg := config.Default()
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	// cli options take precedence over the config file
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	if opts.BaseURL != "" {
		cfg.UI.BaseURL = opts.BaseURL
	}
	if opts.DSN != "" {
		cfg.Database.DSN = opts.DSN
	}

	store, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	app, err := webapp.New(webapp.Options{
		Title:   cfg.UI.Title,
		Version: revision,
		BaseURL: cfg.UI.BaseURL,
		Mode:    router.Mode(cfg.UI.Mode),
		Dark:    cfg.UI.Dark,
		Banner:  cfg.UI.Banner,
	})
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	srv := server.New(cfg, store.Setting, app, opts.Debug)
	if opts.Frame != "" {
		img, err := loadFrame(opts.Frame)
		if err != nil {
			return fmt.Errorf("failed to load frame: %w", err)
		}
		if err := srv.SetImage(img); err != nil {
			return fmt.Errorf("failed to set frame: %w", err)
		}
	}
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func loadFrame(path string) (image.Image, error) {
	fh, err := os.Open(path) //nolint:gosec // path comes from cli options
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()
	img, _, err := image.Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// SetupLog configures lgr and redirects the standard logger to it
func SetupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
