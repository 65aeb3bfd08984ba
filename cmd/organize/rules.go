package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"organize/internal/config"
	"organize/internal/rules"
)

// newRulesCmd creates the rules command, which prints the loaded rule
// table without touching anything.
func newRulesCmd() *cobra.Command {
	rulesPath := config.DefaultRulesPath()

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the extension-to-folder rule table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logrus.New()
			log.SetOutput(cmd.ErrOrStderr())

			ruleTable, err := rules.Load(rulesPath, log)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Folder", "Extensions"})
			for _, folder := range ruleTable.Folders() {
				t.AppendRow(table.Row{folder, strings.Join(ruleTable.Extensions(folder), ", ")})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVarP(&rulesPath, "config", "c", rulesPath, "Path to the rules file")
	return cmd
}
