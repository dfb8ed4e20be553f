package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/jhalter/articles-client/internal"
	"github.com/jhalter/articles-client/internal/session"
	"github.com/muesli/termenv"
	slogmulti "github.com/samber/slog-multi"
)

// Values swapped in by go-releaser at build time
var (
	version = "dev"
)

var logLevels = map[string]log.Level{
	"debug": log.DebugLevel,
	"info":  log.InfoLevel,
}

func main() {
	configPath := flag.String("config", defaultConfigPath(), "Path to config file")
	logLevel := flag.String("log-level", "info", "Log level (debug, info)")
	logFile := flag.String("log-file", "", "Also write JSON logs to this file")

	flag.Parse()

	level, ok := logLevels[*logLevel]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown log level: %s\n\n", *logLevel)
		flag.Usage()
		os.Exit(1)
	}

	// init DebugBuffer
	db := &internal.DebugBuffer{}

	logHandler := log.New(db)

	// Force color output for logger.
	// By default, the charm logger package disables color for non-TTY.
	logHandler.SetColorProfile(termenv.TrueColor)
	logHandler.SetLevel(level)

	handlers := []slog.Handler{logHandler}
	if *logFile != "" {
		fh, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: open log file: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			_ = fh.Close()
		}()

		slogLevel := slog.LevelInfo
		if level == log.DebugLevel {
			slogLevel = slog.LevelDebug
		}
		handlers = append(handlers, slog.NewJSONHandler(fh, &slog.HandlerOptions{Level: slogLevel}))
	}

	logger := slog.New(slogmulti.Fanout(handlers...))
	logger.Info("Started articles client", "Version", version)

	prefs, err := internal.ReadSettings(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: read config file %s: %v\n", *configPath, err)
		os.Exit(1)
	}

	store, err := session.OpenFileStore(prefs.StatePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open session state %s: %v\n", prefs.StatePath, err)
		os.Exit(1)
	}

	model := internal.NewModel(*configPath, prefs, session.New(store), logger, db)
	if err := model.Start(); err != nil {
		logger.Error("Application error", "err", err)
		os.Exit(1)
	}
}

func defaultConfigPath() (cfgPath string) {
	switch runtime.GOOS {
	case "windows":
		cfgPath = "articles-client-config.yaml"
	case "darwin":
		if _, err := os.Stat("/usr/local/etc/articles-client-config.yaml"); err == nil {
			cfgPath = "/usr/local/etc/articles-client-config.yaml"
		} else if _, err := os.Stat("/opt/homebrew/etc/articles-client-config.yaml"); err == nil {
			cfgPath = "/opt/homebrew/etc/articles-client-config.yaml"
		} else {
			cfgPath = "articles-client-config.yaml"
		}
	case "linux":
		if dir, err := os.UserConfigDir(); err == nil {
			cfgPath = dir + "/articles-client/config.yaml"
		} else {
			cfgPath = "articles-client-config.yaml"
		}
	default:
		fmt.Printf("unsupported OS")
		os.Exit(1)
	}

	return cfgPath
}
