package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pure8plus/pure8/internal/config"
	"github.com/pure8plus/pure8/internal/db"
	"github.com/pure8plus/pure8/internal/model"
	"github.com/pure8plus/pure8/internal/progress"
	"github.com/pure8plus/pure8/internal/quote"
	"github.com/pure8plus/pure8/internal/tui"
	"github.com/pure8plus/pure8/internal/web"
)

func main() {
	configPathFlag := flag.String("config", "", "config file path")
	dbPathFlag := flag.String("db", "", "sqlite db path")
	webFlag := flag.Bool("web", false, "enable web server")
	webOnlyFlag := flag.Bool("web-only", false, "run web server only")
	portFlag := flag.Int("port", 0, "web server port")
	exportFlag := flag.String("export", "", "write a backup of the active goal to the given file (- for stdout) and exit")
	flag.Parse()

	cfgPath, err := resolveConfigPath(*configPathFlag)
	if err != nil {
		fatal(err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatal(err)
	}

	applyFlags(&cfg, cfgPath, *dbPathFlag, *webFlag, *webOnlyFlag, *portFlag)

	logger := newLogger(cfg.LogLevel, cfg.LogFormat)

	if err := config.Save(cfgPath, cfg); err != nil {
		fatal(err)
	}

	store, err := openStore(cfg.DBPath)
	if err != nil {
		fatal(err)
	}

	ctx := context.Background()
	if err := store.SeedDefaultQuotes(ctx, quote.DefaultQuotes()); err != nil {
		fatal(err)
	}

	userID := cfg.UserID
	if userID == "" {
		userID = model.DefaultUserID
	}
	engine := progress.NewService(store, userID)
	quotes := quote.NewService(store)

	if *exportFlag != "" {
		if err := runExport(ctx, engine, *exportFlag); err != nil {
			fatal(err)
		}
		return
	}

	if cfg.WebEnabled {
		addr := fmt.Sprintf(":%d", cfg.WebPort)
		handler := web.NewServer(engine, quotes).Handler()
		if *webOnlyFlag {
			logger.Info("web server running", "addr", "http://localhost"+addr)
			fatal(http.ListenAndServe(addr, handler))
		}

		go func() {
			logger.Info("web server running", "addr", "http://localhost"+addr)
			if err := http.ListenAndServe(addr, handler); err != nil {
				logger.Error("web server stopped", "error", err)
			}
		}()
	}

	if err := tui.Run(engine, quotes); err != nil {
		fatal(err)
	}
}

// applyFlags lays the command-line flags over the loaded config.
// -web-only implies -web: it has to switch the server on by itself.
func applyFlags(cfg *config.Config, cfgPath, dbPath string, webOn, webOnly bool, port int) {
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(filepath.Dir(cfgPath), "pure8.db")
	}
	if webOn || webOnly {
		cfg.WebEnabled = true
	}
	if port != 0 {
		cfg.WebPort = port
	}
	if cfg.WebPort == 0 {
		cfg.WebPort = 8484
	}
}

func runExport(ctx context.Context, engine *progress.Service, target string) error {
	if target == "-" {
		return engine.WriteExport(ctx, os.Stdout, "")
	}

	file, err := os.Create(target)
	if err != nil {
		return err
	}
	defer file.Close()
	return engine.WriteExport(ctx, file, "")
}

func newLogger(level, format string) *slog.Logger {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: slogLevel}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func resolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return config.DefaultConfigPath()
}

func openStore(dbPath string) (*db.Store, error) {
	if err := config.EnsureDir(dbPath); err != nil {
		return nil, err
	}

	sqlDB, err := db.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return db.NewStore(sqlDB), nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
