package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fineko",
	Short: "Fineko API: Telegram login and company onboarding",
	Long: `fineko runs the Fineko API server. It logs users in through the Telegram
bot or Login Widget, lets them pick or create a company and issues the
credential that the rest of the product trusts.`,
	SilenceUsage: true,
}

// ExecuteContext runs the root command; ctx is cancelled on shutdown signals.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
