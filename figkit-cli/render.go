package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/k-kohey/figkit/internal/config"
	"github.com/k-kohey/figkit/internal/document"
	"github.com/k-kohey/figkit/internal/host"
	"github.com/k-kohey/figkit/internal/native"
	"github.com/k-kohey/figkit/internal/preview"
	"github.com/k-kohey/figkit/internal/view"
)

var (
	renderNode        string
	renderDepth       int
	renderFormat      string
	renderInteractive bool
	renderURL         string
)

var renderCmd = &cobra.Command{
	Use:   "render [document.json]",
	Short: "Render a frame as a native view tree",
	Long: `Renders a frame of a Figma document with the native controls of the target
toolkit and prints the resulting view tree. The document defaults to FILE in .figkitrc;
--url downloads it instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := view.ParseFormat(renderFormat)
		if err != nil {
			return err
		}
		if renderURL != "" && len(args) == 1 {
			return errors.New("pass either a document file or --url, not both")
		}
		s, err := resolveSettings(fileArg(args))
		if err != nil {
			return err
		}
		if renderInteractive {
			return runInteractive(cmd.Context(), s, renderURL)
		}

		resp, err := preview.NewService(s, nil).Handle(cmd.Context(), preview.Request{
			URL:      renderURL,
			Node:     renderNode,
			Mode:     preview.ModeTree,
			MaxDepth: renderDepth,
		})
		if err != nil {
			return err
		}
		if err := view.Present(cmd.OutOrStdout(), format, *resp.Tree); err != nil {
			return err
		}
		return resp.Err()
	},
}

func runInteractive(ctx context.Context, s config.Settings, url string) error {
	if s.File == "" && url == "" {
		return errors.New("interactive mode needs a document file or --url")
	}
	base, err := host.New(s.Platform, host.Options{})
	if err != nil {
		return err
	}
	container := base.CreateEmptyView()

	load := func(ctx context.Context, dispatcher native.Dispatcher) (view.Render, error) {
		opts, err := preview.HostOptions(s, nil)
		if err != nil {
			return nil, err
		}
		opts.Dispatcher = dispatcher
		d, err := host.New(s.Platform, opts)
		if err != nil {
			return nil, err
		}
		source := s.File
		var doc *document.Document
		if url != "" {
			source = url
			doc, err = document.LoadURL(ctx, nil, url)
		} else {
			doc, err = document.LoadFile(s.File)
		}
		if err != nil {
			return nil, err
		}
		return func(container *native.View) error {
			if _, _, err := d.LoadFrame(ctx, container, doc, s.View, s.FileKey); err != nil {
				return fmt.Errorf("loading %s: %w", source, err)
			}
			return nil
		}, nil
	}
	return view.RunInteractive(ctx, container, load)
}

func init() {
	renderCmd.Flags().StringVar(&renderNode, "node", "", "render only the named node of the frame")
	renderCmd.Flags().IntVar(&renderDepth, "depth", 0, "maximum depth to display")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "o", "yaml", "output format: yaml or plist")
	renderCmd.Flags().StringVar(&renderURL, "url", "", "download the document JSON from this URL instead of reading a file")
	renderCmd.Flags().BoolVarP(&renderInteractive, "interactive", "i", false, "interactive tree navigation mode (TUI)")
	addImageFlags(renderCmd)
	rootCmd.AddCommand(renderCmd)
}
