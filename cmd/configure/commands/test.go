package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/enablementhq/tracker-api/internal/config"
	"github.com/enablementhq/tracker-api/internal/database"
	"github.com/enablementhq/tracker-api/internal/queue"
	"github.com/enablementhq/tracker-api/internal/services/auth"
)

// NewTestCmd creates the test command
func NewTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test backend connectivity",
		Long:  "Verify that the database, message broker, and JWKS endpoint are reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			// Database
			fmt.Printf("Testing database: %s\n", redactURL(cfg.DatabaseURL))
			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
				}
			}()
			if err := db.PingContext(ctx); err != nil {
				return fmt.Errorf("database ping failed: %w", err)
			}
			fmt.Println("✓ Database is reachable")

			// RabbitMQ
			fmt.Printf("\nTesting message broker: %s\n", redactURL(cfg.RabbitMQURL))
			jobQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
			if err != nil {
				return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			defer func() {
				if err := jobQueue.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close RabbitMQ connection: %v\n", err)
				}
			}()
			if err := jobQueue.HealthCheck(ctx); err != nil {
				return fmt.Errorf("RabbitMQ health check failed: %w", err)
			}
			fmt.Println("✓ Message broker is reachable")

			// JWKS
			fmt.Printf("\nTesting JWKS endpoint: %s\n", cfg.JWKSURL)
			jwksManager := auth.NewJWKSManager()
			set, err := jwksManager.GetJWKS(ctx, cfg.JWKSURL)
			if err != nil {
				return fmt.Errorf("failed to fetch JWKS: %w", err)
			}
			fmt.Printf("✓ JWKS endpoint is accessible (%d key(s))\n", set.Len())

			fmt.Println("\n✓ Connectivity test passed")
			return nil
		},
	}

	return cmd
}
