package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/k-kohey/figkit/internal/config"
	"github.com/k-kohey/figkit/internal/host"
	"github.com/k-kohey/figkit/internal/images"
)

// openStore is replaced in tests.
var openStore = config.NewStore

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the global figkit configuration",
	Long: `Manages user-level settings: the fallback platform and render defaults
remembered per document file. Project settings live in figkit.toml and .figkitrc.`,
}

var configSetPlatformCmd = &cobra.Command{
	Use:   "set-platform <cocoa|uikit|wpf>",
	Short: "Set the platform used when no project names one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := host.Lookup(args[0])
		if err != nil {
			return err
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.SetDefaultPlatform(v.Name()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Default platform set to %s\n", v.Name())
		return nil
	},
}

var configGetPlatformCmd = &cobra.Command{
	Use:   "get-platform",
	Short: "Show the default platform",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		p, err := store.DefaultPlatform()
		if err != nil {
			return err
		}
		if p == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (built-in default)\n", config.DefaultPlatform)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), p)
		return nil
	},
}

var configClearPlatformCmd = &cobra.Command{
	Use:   "clear-platform",
	Short: "Remove the default platform",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		return store.SetDefaultPlatform("")
	},
}

var configRememberCmd = &cobra.Command{
	Use:   "remember <document.json>",
	Short: "Remember --platform, --view, --images, --resources and --file-key for a document",
	Long: `Stores the given flags as defaults for one document file. Later commands on that
document use them unless .figkitrc, the environment or a flag says otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := config.DocumentDefaults{
			Platform:      flags.Platform,
			View:          flags.View,
			Resources:     flags.Resources,
			ImageStrategy: flags.ImageStrategy,
			FileKey:       flags.FileKey,
		}
		if d.Platform != "" {
			v, err := host.Lookup(d.Platform)
			if err != nil {
				return err
			}
			d.Platform = v.Name()
		}
		if d.ImageStrategy != "" {
			s, err := images.ParseStrategy(d.ImageStrategy)
			if err != nil {
				return err
			}
			d.ImageStrategy = string(s)
		}
		if d == (config.DocumentDefaults{}) {
			return errors.New("nothing to remember. Pass at least one of --platform, --view, --images, --resources or --file-key")
		}

		key, err := documentKey(args[0])
		if err != nil {
			return err
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.Remember(key, d); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Remembered defaults for %s\n", key)
		return nil
	},
}

var configForgetCmd = &cobra.Command{
	Use:   "forget <document.json>",
	Short: "Drop the remembered defaults of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := documentKey(args[0])
		if err != nil {
			return err
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		return store.Forget(key)
	},
}

var configDocumentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List documents with remembered defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		keys, err := store.Documents()
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No remembered documents. Use 'figkit config remember' to add one.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "DOCUMENT\tPLATFORM\tVIEW\tIMAGES\tRESOURCES")
		for _, k := range keys {
			d, _, err := store.Document(k)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", k, dash(d.Platform), dash(d.View), dash(d.ImageStrategy), dash(d.Resources))
		}
		return w.Flush()
	},
}

func documentKey(file string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return config.DocumentKey(dir, file), nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	configRememberCmd.Flags().StringVar(&flags.ImageStrategy, "images", "", "image source: manifest, dir, remote or none")
	configRememberCmd.Flags().StringVar(&flags.Resources, "resources", "", "resources directory for manifest and dir images")
	configCmd.AddCommand(configSetPlatformCmd, configGetPlatformCmd, configClearPlatformCmd,
		configRememberCmd, configForgetCmd, configDocumentsCmd)
	rootCmd.AddCommand(configCmd)
}
