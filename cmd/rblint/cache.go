package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rblint/internal/linter"
	"rblint/internal/project"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the result cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached lint result",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := project.LoadSettings(".")
		if err != nil {
			return err
		}
		dir := settings.Run.CacheDir
		if dir == "" {
			if dir, err = linter.DefaultCacheDir(); err != nil {
				return err
			}
		}
		c, err := linter.OpenCache(dir)
		if err != nil {
			return err
		}
		if err := c.Clear(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", c.Dir())
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
}
