package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/k-kohey/figkit/internal/preview"
)

var (
	codeNode string
	codeURL  string
)

var codeCmd = &cobra.Command{
	Use:   "code [document.json]",
	Short: "Generate C# code that builds a frame",
	Long: `Generates the C# statements that construct a frame (or one node of it) with
the native controls of the target toolkit. Nodes without a converter are skipped,
reported on stderr and make the command exit non-zero.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if codeURL != "" && len(args) == 1 {
			return errors.New("pass either a document file or --url, not both")
		}
		s, err := resolveSettings(fileArg(args))
		if err != nil {
			return err
		}
		resp, err := preview.NewService(s, nil).Handle(cmd.Context(), preview.Request{
			URL:  codeURL,
			Node: codeNode,
			Mode: preview.ModeCode,
		})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprint(cmd.OutOrStdout(), resp.Code); err != nil {
			return err
		}
		return resp.Err()
	},
}

func init() {
	codeCmd.Flags().StringVar(&codeNode, "node", "", "generate only the named node of the frame")
	codeCmd.Flags().StringVar(&codeURL, "url", "", "download the document JSON from this URL instead of reading a file")
	codeCmd.Flags().StringVar(&flags.RootName, "root", "", "variable name of the root view (e.g. this)")
	codeCmd.Flags().StringVar(&flags.Naming, "naming", "", "variable naming: camel, pascal or snake")
	codeCmd.Flags().BoolVar(&flags.TranslateLabels, "translate", false, "wrap labels in the toolkit's localization lookup")
	codeCmd.Flags().StringVar(&flags.Localizer, "localizer", "", "custom localization format with one %s for the quoted label")
	rootCmd.AddCommand(codeCmd)
}
