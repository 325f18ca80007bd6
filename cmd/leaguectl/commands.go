package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Dosada05/league-system/app"
	"github.com/Dosada05/league-system/config"
	"github.com/Dosada05/league-system/db"
	"github.com/Dosada05/league-system/metrics"
	"github.com/Dosada05/league-system/middleware"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const connectTimeout = 5 * time.Second

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "leaguectl",
		Short:         "Admin tool for the league scoring server",
		Long:          `Maintenance commands that run directly against the league database and storage.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	logger := func() *slog.Logger {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}

	root.AddCommand(
		newMigrateCmd(logger),
		newRecomputeCmd(logger),
		newExportCmd(logger),
		newHealthCmd(),
		newTokenCmd(),
	)
	return root
}

func newMigrateCmd(logger func() *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, dbConn, err := openDatabase()
			if err != nil {
				return err
			}
			defer dbConn.Close()

			if err := db.Migrate(cmd.Context(), dbConn); err != nil {
				return err
			}
			version, err := db.MigrationVersion(cmd.Context(), dbConn)
			if err != nil {
				return err
			}
			logger().Debug("migrations applied", slog.Int64("version", version))
			fmt.Fprintf(cmd.OutOrStdout(), "database at migration version %d\n", version)
			return nil
		},
	}
}

func newRecomputeCmd(logger func() *slog.Logger) *cobra.Command {
	var (
		rawIDs   []int
		parallel int
	)
	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Rebuild the standings of every group of one or more league events",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := eventIDs(rawIDs)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), logger(), func(a *app.App) error {
				perEvent, err := forEachEvent(cmd.Context(), ids, parallel, a.Events.RecomputeEvent)
				if err != nil {
					return err
				}
				updates := make([]services.StandingsUpdate, 0, len(ids))
				for _, u := range perEvent {
					updates = append(updates, u...)
				}
				return printJSON(cmd.OutOrStdout(), updates)
			})
		},
	}
	cmd.Flags().IntSliceVar(&rawIDs, "event", nil, "league event id; repeat or comma-separate for several")
	cmd.Flags().IntVar(&parallel, "parallel", defaultParallel, "events processed at once")
	_ = cmd.MarkFlagRequired("event")
	return cmd
}

func newExportCmd(logger func() *slog.Logger) *cobra.Command {
	var (
		rawIDs   []int
		parallel int
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Upload a JSON standings snapshot of one or more league events",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := eventIDs(rawIDs)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), logger(), func(a *app.App) error {
				results, err := forEachEvent(cmd.Context(), ids, parallel, a.Exporter.ExportEventStandings)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), results)
			})
		},
	}
	cmd.Flags().IntSliceVar(&rawIDs, "event", nil, "league event id; repeat or comma-separate for several")
	cmd.Flags().IntVar(&parallel, "parallel", defaultParallel, "events exported at once")
	_ = cmd.MarkFlagRequired("event")
	return cmd
}

func newHealthCmd() *cobra.Command {
	var host string
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check the health of a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := strings.TrimSuffix(host, "/") + "/health"
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, url, nil)
			if err != nil {
				return fmt.Errorf("failed to build request: %w", err)
			}
			client := &http.Client{Timeout: connectTimeout}
			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("failed to make request: %w", err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("failed to read response body: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Status Code: %d\n%s", resp.StatusCode, body)
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("server is unhealthy (status %d)", resp.StatusCode)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&host, "host", "http://localhost:8080", "the host address of the server")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		userID int
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign an API token for an organizer or admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("JWT_SECRET_KEY")
			if secret == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				secret = cfg.JWTSecretKey
			}
			r := models.UserRole(role)
			if r != models.RoleOrganizer && r != models.RoleAdmin {
				return fmt.Errorf("--role must be %q or %q", models.RoleOrganizer, models.RoleAdmin)
			}
			token, err := middleware.IssueToken([]byte(secret), userID, r, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().IntVar(&userID, "user", 0, "user id placed in the token")
	cmd.Flags().StringVar(&role, "role", string(models.RoleOrganizer), "organizer or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func openDatabase() (*config.Config, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	dbConn, err := db.Connect(cfg.DatabaseURL, connectTimeout)
	if err != nil {
		return nil, nil, err
	}
	return cfg, dbConn, nil
}

// withApp собирает сервисы без websocket-хаба и с отдельным реестром метрик.
func withApp(ctx context.Context, logger *slog.Logger, fn func(a *app.App) error) error {
	cfg, dbConn, err := openDatabase()
	if err != nil {
		return err
	}
	defer dbConn.Close()

	a, err := app.Build(ctx, cfg, dbConn, nil, metrics.NewService(prometheus.NewRegistry()), logger)
	if err != nil {
		return err
	}
	return fn(a)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	return enc.Encode(v)
}
