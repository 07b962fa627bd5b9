package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const asciiLogo = ` _     _                                _
| |__ (_)____ __ ___ _ __   ___  _ __| |_
| '_ \| |_  / '__/ _ \ '_ \ / _ \| '__| __|
| |_) | |/ /| | |  __/ |_) | (_) | |  | |_
|_.__/|_/___|_|  \___| .__/ \___/|_|   \__|
                     |_|`

var rootCmd = &cobra.Command{
	Use:   "bizreport",
	Short: "Automated business reporting over email",
	Long: asciiLogo + `

bizreport turns a CSV of business data into a styled HTML report: it
computes KPIs, generates an AI executive summary (remote API with local
model fallback), and delivers the result over SMTP or saves it to disk.

Credentials come from the environment, never from flags or config files.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Invalid or missing business data
  12 - Email delivery failed`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for bizreport")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
