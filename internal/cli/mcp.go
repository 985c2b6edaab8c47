package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/testbridge/toolgate/internal/mcp"
)

var (
	mcpPolicy   string
	mcpCatalog  string
	mcpAuditLog string
)

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpPolicy, "policy", "", "Path to district policy YAML")
	mcpCmd.Flags().StringVar(&mcpCatalog, "catalog", "", "Path to a catalog extension YAML")
	mcpCmd.Flags().StringVar(&mcpAuditLog, "audit-log", "", "Path to the hash-chained resolution log")
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve resolution over MCP stdio",
	Long: "Starts a Model Context Protocol server exposing toolgate_resolve,\n" +
		"toolgate_simulate, toolgate_explain and toolgate_catalog.",
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	s, err := mcp.New(mcp.Config{
		PolicyPath:   mcpPolicy,
		CatalogPath:  mcpCatalog,
		AuditLogPath: mcpAuditLog,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return s.Run(ctx)
}
