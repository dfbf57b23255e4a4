package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/enablementhq/tracker-api/internal/catalog"
)

// NewCatalogCmd creates the catalog inspection command
func NewCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the embedded class catalog",
		Long:  "List the classes compiled into the binary, or show one class in detail",
	}
	cmd.AddCommand(newCatalogListCmd())
	cmd.AddCommand(newCatalogShowCmd())
	return cmd
}

func newCatalogListCmd() *cobra.Command {
	var difficulty string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog classes grouped by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load()
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}

			if difficulty != "" {
				classes := c.ByDifficulty(difficulty)
				if len(classes) == 0 {
					fmt.Printf("No classes with difficulty %q\n", difficulty)
					return nil
				}
				fmt.Printf("Classes with difficulty %q:\n", difficulty)
				for _, class := range classes {
					fmt.Printf("  - %s (%d min)\n", class.Name, class.Duration)
				}
				return nil
			}

			for _, category := range c.Categories {
				fmt.Printf("%s %s\n", category.Icon, category.Name)
				for _, class := range category.Classes {
					fmt.Printf("  - %s (%d min, %s)\n", class.Name, class.Duration, class.Difficulty)
				}
				fmt.Println()
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "Only show classes with this difficulty")
	return cmd
}

func newCatalogShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <class name>",
		Short: "Show one catalog class in detail",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			c, err := catalog.Load()
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}

			class, ok := c.FindClass(name)
			if !ok {
				return fmt.Errorf("no catalog class named %q", name)
			}

			fmt.Printf("Name:        %s\n", class.Name)
			fmt.Printf("Duration:    %d min\n", class.Duration)
			fmt.Printf("Difficulty:  %s\n", class.Difficulty)
			fmt.Printf("Equipment:   %s\n", class.Equipment)
			fmt.Printf("Description: %s\n", class.Description)
			return nil
		},
	}
}
