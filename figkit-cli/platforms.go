package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/k-kohey/figkit/internal/host"
)

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List supported toolkits and their native controls",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "PLATFORM\tVIEW\tCONTROLS")
		for _, name := range host.Platforms() {
			v, err := host.Lookup(name)
			if err != nil {
				return err
			}
			var controls []string
			for _, ct := range v.Controls() {
				controls = append(controls, ct.String())
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", name, v.Class(host.RoleView), strings.Join(controls, ", "))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(platformsCmd)
}
