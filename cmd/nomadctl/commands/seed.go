package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"nomadpal/internal/seed"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo travelers, posts, reviews and services",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := seed.NewSeeder(store).Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Seeded %s\n", report)
			fmt.Printf("Demo password: %s\n", seed.DemoPassword)
			return nil
		},
	}
}
