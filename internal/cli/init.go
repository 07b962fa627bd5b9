package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alhadhrami/bizreport/internal/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init <target_path>",
	Short: "Initialize a new bizreport project",
	Long: `Initialize a bizreport project into the specified directory.

The init command creates:
- bizreport.yaml with commented defaults
- a sample CSV data file to run against immediately
- a .env.example documenting the required secrets

Target directory must be empty or non-existent.

Examples:
  bizreport init .                    # Initialize in current directory
  bizreport init ./myreports          # Initialize in ./myreports
  bizreport init /absolute/path       # Initialize at absolute path`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	targetPath := args[0]

	// Project name from the target path, falling back to the cwd name
	projectName := filepath.Base(targetPath)
	if projectName == "." || projectName == ".." || projectName == string(filepath.Separator) {
		cwd, err := os.Getwd()
		if err == nil {
			projectName = filepath.Base(cwd)
		} else {
			projectName = "project"
		}
	}
	verbose := getVerboseFlag(cmd)

	scaffolder := scaffold.NewScaffolder(verbose)
	if err := scaffolder.CreateProject(projectName, scaffold.DefaultTemplate, targetPath); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	tree, err := scaffold.BuildFileTree(targetPath)
	if err != nil {
		// Non-fatal - just skip tree display
		fmt.Fprintf(os.Stderr, "\n✓ Project initialized successfully in '%s'\n\n", targetPath)
	} else {
		fmt.Fprintln(os.Stderr, "\n✓ Project initialized successfully")
		fmt.Fprintln(os.Stderr, "\nCreated structure:")
		fmt.Fprint(os.Stderr, tree)
	}

	fmt.Fprintln(os.Stderr, "\nNext steps:")
	if targetPath != "." {
		fmt.Fprintf(os.Stderr, "  cd %s\n", targetPath)
	}
	fmt.Fprintln(os.Stderr, "  cp .env.example .env   # then fill in SMTP_PASSWORD")
	fmt.Fprintln(os.Stderr, "  bizreport run . --dry-run")
	fmt.Fprintln(os.Stderr, "  # Open output/report.html in a browser to preview")

	return nil
}
