package main

import (
	"fmt"
	"log/slog"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/k-kohey/figkit/internal/preview"
	"github.com/k-kohey/figkit/internal/rpc"
)

var (
	serveGRPC string
	serveRoot string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Answer render requests from an IDE or another process",
	Long: `Without flags, reads render requests as JSON Lines on stdin and writes one JSON
event per request to stdout. Requests run concurrently; every event carries the
id of its request.

With --grpc, serves the figkit.v1.Renderer service on the given address instead.
With --root, request paths are read relative to that directory and may not leave it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSettings("")
		if err != nil {
			return err
		}
		svc := preview.NewService(s, slog.Default())
		if serveRoot != "" {
			svc.Documents = os.DirFS(serveRoot)
		}

		if serveGRPC == "" {
			preview.Serve(cmd.Context(), os.Stdin, os.Stdout, svc)
			return nil
		}

		lis, err := net.Listen("tcp", serveGRPC)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", serveGRPC, err)
		}
		fmt.Fprintf(os.Stderr, "Serving %s on %s\n", rpc.ServiceName, lis.Addr())
		return rpc.Serve(cmd.Context(), rpc.NewServer(svc, slog.Default()), lis)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveGRPC, "grpc", "", "serve gRPC on this address (e.g. :7420) instead of stdio")
	serveCmd.Flags().StringVar(&serveRoot, "root", "", "directory request paths are confined to")
	addImageFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}
