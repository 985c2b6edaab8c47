package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/testbridge/toolgate/internal/server"
)

var (
	serveAddr     string
	servePolicy   string
	serveCatalog  string
	serveAuditLog string
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8710", "Listen address")
	serveCmd.Flags().StringVar(&servePolicy, "policy", "", "Path to district policy YAML (hot-reloaded on change)")
	serveCmd.Flags().StringVar(&serveCatalog, "catalog", "", "Path to a catalog extension YAML")
	serveCmd.Flags().StringVar(&serveAuditLog, "audit-log", "", "Path to the hash-chained resolution log")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve resolution over HTTP",
	Long: "Starts the JSON API. The district policy on disk is authoritative for\n" +
		"every request and is hot-reloaded when the file changes.",
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := server.New(server.Config{
		Addr:         serveAddr,
		PolicyPath:   servePolicy,
		CatalogPath:  serveCatalog,
		AuditLogPath: serveAuditLog,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if servePolicy != "" {
		reloader, err := server.NewReloader(s, []string{servePolicy})
		if err != nil {
			fmt.Fprintf(os.Stderr, "hot-reload disabled: %v\n", err)
		} else {
			go func() {
				if err := reloader.Run(ctx); err != nil {
					fmt.Fprintf(os.Stderr, "reloader stopped: %v\n", err)
				}
			}()
		}
	}

	fmt.Fprintf(os.Stderr, "toolgate listening on %s\n", serveAddr)
	errCh := make(chan error, 1)
	go func() { errCh <- s.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}
