package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rblint/internal/config"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema used to validate .rubocop.yml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), config.Schema())
		return err
	},
}
