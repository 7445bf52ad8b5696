package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/metro/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the route API over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	model, err := loadNetwork()
	if err != nil {
		return err
	}
	opts, err := searchOptions()
	if err != nil {
		return err
	}

	srv, err := server.New(model, server.Options{
		CacheSize:      cfg.Server.CacheSize,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Search:         opts,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, addr)
}
