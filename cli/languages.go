package cli

import (
	"fmt"
	"text/tabwriter"

	"lexbrief-backend/gateway"

	"github.com/spf13/cobra"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the supported translation languages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CODE\tLANGUAGE")
		for _, lang := range gateway.Languages() {
			fmt.Fprintf(tw, "%s\t%s\n", lang.Code, lang.Name)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
