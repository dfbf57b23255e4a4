package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/enablementhq/tracker-api/internal/config"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show effective configuration",
		Long:  "Print the configuration resolved from environment variables, with secrets redacted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			fmt.Println("Effective configuration:")
			fmt.Printf("  Server port:       %s\n", cfg.ServerPort)
			fmt.Printf("  Base URL:          %s\n", cfg.BaseURL)
			fmt.Printf("  Frontend URL:      %s\n", cfg.FrontendURL)
			fmt.Printf("  HSTS enabled:      %t\n", cfg.EnableHSTS)
			fmt.Printf("  JWT issuer:        %s\n", cfg.JWTIssuer)
			fmt.Printf("  JWKS URL:          %s\n", cfg.JWKSURL)
			fmt.Printf("  JWT audience:      %s\n", orUnset(cfg.JWTAudience))
			fmt.Printf("  Database URL:      %s\n", redactURL(cfg.DatabaseURL))
			fmt.Printf("  Redis URL:         %s\n", redactURL(cfg.RedisURL))
			fmt.Printf("  RabbitMQ URL:      %s\n", redactURL(cfg.RabbitMQURL))
			fmt.Printf("  RabbitMQ prefetch: %d\n", cfg.RabbitMQPrefetch)
			fmt.Printf("  Sweep window:      %dh\n", cfg.SweepWindowHours)
			fmt.Printf("  OTel enabled:      %t\n", cfg.OTELEnabled)
			if cfg.OTELEnabled {
				fmt.Printf("  OTel endpoint:     %s\n", orUnset(cfg.OTELEndpoint))
			}

			return nil
		},
	}

	return cmd
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
