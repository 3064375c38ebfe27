package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/k-kohey/figkit/internal/config"
)

var verbose bool

// flags holds the settings given on the command line; zero fields fall
// back to .figkitrc, figkit.toml and the global store.
var flags config.Settings

var rootCmd = &cobra.Command{
	Use:   "figkit",
	Short: "Render Figma frames as native Cocoa, UIKit and WPF views",
	Long: `figkit reads Figma documents and renders their frames with the native controls
of a desktop or mobile toolkit, either as a live view tree or as C# code.`,
	SilenceUsage: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	pf.StringVarP(&flags.Platform, "platform", "p", "", "target toolkit: cocoa, uikit or wpf (overrides .figkitrc)")
	pf.StringVar(&flags.View, "view", "", "name of the frame to render (default: first frame)")
	pf.StringVar(&flags.Token, "token", "", "Figma API token (default: $FIGMA_TOKEN)")
	pf.StringVar(&flags.FileKey, "file-key", "", "Figma file key for remote images")
	pf.StringVar(&flags.APIBase, "api", "", "Figma API base URL")
}

func initConfig() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// resolveSettings merges the command line with the project configuration
// of the working directory. file, when set, names the document.
func resolveSettings(file string) (config.Settings, error) {
	dir, err := os.Getwd()
	if err != nil {
		return config.Settings{}, err
	}
	f := flags
	if file != "" {
		f.File = file
	}
	store, err := openStore()
	if err != nil {
		slog.Debug("Global config unavailable", "err", err)
		store = nil
	}
	return config.Resolve(dir, f, store)
}

// addImageFlags registers the image pipeline flags on cmd.
func addImageFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flags.ImageStrategy, "images", "", "image source: manifest, dir, remote or none")
	cmd.Flags().StringVar(&flags.Resources, "resources", "", "resources directory for manifest and dir images")
	cmd.Flags().StringVar(&flags.ImageFormat, "image-format", "", "file extension of dir images (default .png)")
	cmd.Flags().IntVar(&flags.Concurrency, "concurrency", 0, "parallel remote image downloads")
}

func fileArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return ""
}
