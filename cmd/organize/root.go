package main

import (
	"github.com/spf13/cobra"

	"organize/internal/config"
)

// NewRootCmd creates the root command. Running the root with a directory
// argument is the same as `organize run <directory>`.
func NewRootCmd() *cobra.Command {
	settings := config.Default()

	rootCmd := &cobra.Command{
		Use:   "organize [directory]",
		Short: "Sort a directory's files into subfolders by extension",
		Long: `Organize moves the files of a single directory into subfolders
according to an extension-to-folder rule table loaded from a JSON
rules file. Only direct children are touched; subdirectories are
left alone, nothing is ever deleted or overwritten.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runOrganize(cmd, args[0], settings)
		},
	}

	addRunFlags(rootCmd, settings)

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newRulesCmd())
	rootCmd.AddCommand(newWatchCmd())

	return rootCmd
}

// addRunFlags registers the flags shared by the root invocation, run and
// watch. Each command carries its own Settings instance.
func addRunFlags(cmd *cobra.Command, s *config.Settings) {
	cmd.Flags().BoolVarP(&s.DryRun, "dry-run", "d", false, "Log the full plan without moving anything")
	cmd.Flags().StringVarP(&s.RulesPath, "config", "c", s.RulesPath, "Path to the rules file")
	cmd.Flags().StringVar(&s.LogFile, "log-file", s.LogFile, "Audit log path (append-only)")
	cmd.Flags().StringVar(&s.Collision, "collision", s.Collision, "Collision policy: skip or rename")
	cmd.Flags().StringArrayVarP(&s.Excludes, "exclude", "x", nil, "Glob pattern of names to leave alone (repeatable)")
	cmd.Flags().BoolVarP(&s.Quiet, "quiet", "q", false, "Don't mirror audit records to the console")
}
