package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nomadpal/internal/seed"
)

func resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop every NomadPal collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to drop %s without --yes", strings.Join(seed.Collections, ", "))
			}
			if err := seed.Reset(cmd.Context(), store); err != nil {
				return err
			}
			fmt.Printf("Dropped %d collections\n", len(seed.Collections))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the drop")
	return cmd
}
