package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"nomadpal/internal/seed"
)

func usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users with their trust rating and verification",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := store.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			printUsers(os.Stdout, users)
			return nil
		},
	}
}

func printUsers(w io.Writer, users []seed.UserSummary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tNAME\tLOCATION\tTRUST\tVERIFIED\tTYPE\tROLE")
	for _, u := range users {
		verified := "no"
		if u.Verified {
			verified = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\t%s\t%s\t%s\n",
			u.ID, u.Username, u.Name, u.Location, u.TrustRating, verified, u.MemberType, u.Role)
	}
	tw.Flush()
}
