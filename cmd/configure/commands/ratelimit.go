package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ulule/limiter/v3"

	"github.com/enablementhq/tracker-api/internal/config"
	"github.com/enablementhq/tracker-api/internal/database"
	"github.com/enablementhq/tracker-api/internal/models"
)

// NewRatelimitCmd manages the API rate limit stored in the database. The
// running server picks changes up on its next reload tick, so no restart
// is needed after a set.
func NewRatelimitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratelimit",
		Short: "Manage rate limit configuration",
		Long:  "List or update the API rate limit (e.g. 5-S, 100-M). Stored in the database and hot-reloaded by the server.",
	}
	cmd.AddCommand(newRatelimitListCmd())
	cmd.AddCommand(newRatelimitSetCmd())
	return cmd
}

// withRatelimitRepo opens the database from the ambient config, runs fn
// against the repository, and closes the connection.
func withRatelimitRepo(fn func(ctx context.Context, repo *database.RatelimitConfigRepository) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	return fn(context.Background(), database.NewRatelimitConfigRepository(db))
}

func newRatelimitListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List current rate limit configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRatelimitRepo(func(ctx context.Context, repo *database.RatelimitConfigRepository) error {
				stored, err := repo.Get(ctx)
				if err != nil {
					return fmt.Errorf("get ratelimit config: %w", err)
				}
				if stored == nil {
					fmt.Println("No rate limit configuration in database. Use 'ratelimit set' to add one.")
					return nil
				}
				fmt.Println("Rate limit configuration:")
				fmt.Printf("  Rate: %s\n", stored.Rate)
				return nil
			})
		},
	}
}

func newRatelimitSetCmd() *cobra.Command {
	var rate string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set rate limit configuration",
		Long:  "Update the API rate limit (e.g. 5-S, 100-M, 1000-H). The rate is validated before it is stored.",
		RunE: func(cmd *cobra.Command, args []string) error {
			rate = strings.TrimSpace(rate)
			if rate == "" {
				return fmt.Errorf("--rate is required (e.g. 5-S, 100-M)")
			}
			if _, err := limiter.NewRateFromFormatted(rate); err != nil {
				return fmt.Errorf("invalid rate %q: %w", rate, err)
			}
			return withRatelimitRepo(func(ctx context.Context, repo *database.RatelimitConfigRepository) error {
				if err := repo.Set(ctx, &models.RatelimitConfig{Rate: rate}); err != nil {
					return fmt.Errorf("set ratelimit config: %w", err)
				}
				fmt.Println("Rate limit configuration updated.")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&rate, "rate", "", "Rate (e.g. 5-S, 100-M, 1000-H) (required)")
	return cmd
}
