package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ehr/practice/internal/config"
	"github.com/ehr/practice/internal/platform/catalog"
	"github.com/ehr/practice/internal/platform/db"
	"github.com/ehr/practice/internal/platform/listing"
	"github.com/ehr/practice/internal/platform/middleware"
	"github.com/ehr/practice/internal/platform/query"
	"github.com/ehr/practice/internal/platform/querysql"
	"github.com/ehr/practice/internal/platform/telemetry"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "practice-server",
		Short:        "Practice management list API server",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(compileCmd())
	rootCmd.AddCommand(entitiesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func compileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile <entity> <query-string>",
		Short: "Compile a query string offline and print the filter spec and SQL",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog()
			if err != nil {
				return err
			}
			raw := ""
			if len(args) == 2 {
				raw = args[1]
			}
			out, err := compileQuery(cat, args[0], raw)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

func entitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "entities",
		Short: "List catalog entities and their filterable fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog()
			if err != nil {
				return err
			}
			return printEntities(cmd.OutOrStdout(), cat)
		},
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger.Level(cfg.Level())
}

func loadCatalog() (*catalog.Catalog, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return catalog.FromConfig(cfg.CatalogFile, compilerOptions(cfg, zerolog.Nop())...)
}

func compilerOptions(cfg *config.Config, logger zerolog.Logger) []query.Option {
	opts := []query.Option{query.WithLogger(logger)}
	if cfg.QueryStrictOrdering {
		opts = append(opts, query.WithStrictOrdering())
	}
	return opts
}

// compileOutput is what the compile command prints.
type compileOutput struct {
	Entity string             `json:"entity"`
	Spec   *query.Spec        `json:"spec"`
	Select querysql.Statement `json:"select"`
	Count  querysql.Statement `json:"count"`
}

func compileQuery(cat *catalog.Catalog, entity, rawQuery string) (*compileOutput, error) {
	e, ok := cat.Lookup(entity)
	if !ok {
		return nil, fmt.Errorf("%w %q", listing.ErrUnknownEntity, entity)
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, fmt.Errorf("parse query string: %w", err)
	}
	spec, err := e.Compiler().Compile(query.FromValues(values))
	if err != nil {
		return nil, err
	}
	page, count, err := querysql.Render(e.Table, spec)
	if err != nil {
		return nil, err
	}
	return &compileOutput{Entity: entity, Spec: spec, Select: page, Count: count}, nil
}

func printEntities(w io.Writer, cat *catalog.Catalog) error {
	for _, name := range cat.Names() {
		e, _ := cat.Lookup(name)
		schema := e.Compiler().Schema()
		fields := make([]string, 0, len(schema.Filterable))
		for f := range schema.Filterable {
			fields = append(fields, f)
		}
		sort.Strings(fields)

		if _, err := fmt.Fprintf(w, "%s (%s)\n", name, e.Table.Name); err != nil {
			return err
		}
		for _, f := range fields {
			if _, err := fmt.Fprintf(w, "  %-20s %s\n", f, schema.Filterable[f].Type); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newServer builds the HTTP server. tenant may be nil, in which case
// requests run on the shared pool connection.
func newServer(cfg *config.Config, logger zerolog.Logger, svc *listing.Service, metrics *telemetry.Metrics, checker db.Checker, tenant echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(metrics.Middleware())
	e.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", middleware.RequestIDHeader, db.TenantHeader},
	}))

	e.GET("/health", db.HealthHandler(checker, metrics))
	e.GET("/metrics", metrics.Handler())

	apiV1 := e.Group("/api/v1", middleware.RequestTimeout(cfg.RequestTimeout))
	if tenant != nil {
		apiV1.Use(tenant)
	}
	listing.NewHandler(svc).RegisterRoutes(apiV1)

	return e
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg)

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}
	if err := cfg.RequireDatabase(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	cat, err := catalog.FromConfig(cfg.CatalogFile, compilerOptions(cfg, logger)...)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load entity catalog")
	}
	logger.Info().Strs("entities", cat.Names()).Bool("strict_ordering", cfg.QueryStrictOrdering).Msg("catalog loaded")

	metrics := telemetry.New(true)

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	svc := listing.NewService(cat, listing.NewRepo(pool), metrics)
	e := newServer(cfg, logger, svc, metrics, db.PoolChecker(pool), db.TenantMiddleware(pool, cfg.DefaultTenant))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
