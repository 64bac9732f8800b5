package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/company-match/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "company-match",
	Short: "Approximate entity resolution across business-registry extracts",
	Long: "Matches business records from heterogeneous registry extracts against a reference corpus, " +
		"tolerating name-spelling noise, legal-suffix variants and phone formatting differences.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
