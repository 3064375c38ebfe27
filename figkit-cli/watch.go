package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/k-kohey/figkit/internal/images"
	"github.com/k-kohey/figkit/internal/preview"
	"github.com/k-kohey/figkit/internal/render"
	"github.com/k-kohey/figkit/internal/view"
)

var (
	watchDepth    int
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [document.json]",
	Short: "Re-render a frame whenever its document changes",
	Long: `Renders a frame and prints its view tree, then re-renders in place and prints
the tree again every time the document file is saved. Each tree is a separate
YAML document.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSettings(fileArg(args))
		if err != nil {
			return err
		}
		if s.File == "" {
			return errors.New("watch needs a document file. Pass it as an argument or set FILE in .figkitrc")
		}
		live, err := preview.NewLive(s, nil)
		if err != nil {
			return err
		}
		live.OnRender = func(res *render.Result, _ *images.Batch) {
			name := live.Frame
			if res.Root != nil {
				name = res.Root.Name()
			}
			tree := view.TreeOutput{
				Platform:    live.Delegate.Vocabulary().Name(),
				View:        name,
				Generation:  res.Generation,
				Converted:   res.Converted,
				Views:       view.BuildTree(live.Container, watchDepth),
				Diagnostics: view.Diagnostics(res.Diagnostics),
			}
			view.MarkPending(tree.Views, res.Images)
			fmt.Fprintln(os.Stdout, "---")
			if err := view.PresentTreeYAML(os.Stdout, tree); err != nil {
				live.Logger.Error("Writing tree", "err", err)
			}
		}
		fmt.Fprintf(os.Stderr, "Watching %s (Ctrl-C to stop)\n", s.File)
		return live.Run(cmd.Context(), watchDebounce)
	},
}

func init() {
	watchCmd.Flags().IntVar(&watchDepth, "depth", 0, "maximum depth to display")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", preview.DefaultDebounce, "quiet period before re-rendering")
	addImageFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}
