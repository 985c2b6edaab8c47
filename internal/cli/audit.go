package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/testbridge/toolgate/internal/audit"
)

var auditVerifyFormat string

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditVerifyCmd)
	auditVerifyCmd.Flags().StringVarP(&auditVerifyFormat, "format", "f", "text", "Output format (text|json)")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the resolution log",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify <log-file>",
	Short: "Verify the log's hash chain",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditVerify,
}

func runAuditVerify(cmd *cobra.Command, args []string) error {
	result := audit.Verify(args[0])

	if auditVerifyFormat == "json" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else if result.Valid {
		fmt.Printf("OK: %d entries, chain intact\n", result.Lines)
	} else {
		fmt.Printf("BROKEN at line %d: %s\n", result.ErrorLine, result.Error)
	}

	if !result.Valid {
		os.Exit(1)
	}
	return nil
}
