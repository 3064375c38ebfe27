package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/k-kohey/figkit/internal/host"
	"github.com/k-kohey/figkit/internal/preview"
)

var fetchOutput string

var fetchCmd = &cobra.Command{
	Use:   "fetch <figma-url>",
	Short: "Download a Figma file as JSON",
	Long: `Downloads the document behind a figma.com design URL through the Figma API.
Needs a token from --token, $FIGMA_TOKEN or .figkitrc.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSettings("")
		if err != nil {
			return err
		}
		opts, err := preview.HostOptions(s, nil)
		if err != nil {
			return err
		}
		d, err := host.New(s.Platform, opts)
		if err != nil {
			return err
		}
		data, err := d.GetFigmaFileContent(cmd.Context(), args[0], s.Token)
		if err != nil {
			return err
		}

		if fetchOutput == "" || fetchOutput == "-" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(fetchOutput, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", fetchOutput, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s (%d bytes)\n", fetchOutput, len(data))
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "write the document to this file instead of stdout")
	rootCmd.AddCommand(fetchCmd)
}
