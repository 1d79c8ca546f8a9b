package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"rblint/internal/cop"
	"rblint/internal/cops"
)

var (
	copsAutocorrectable bool
	copsDepartment      string
)

func init() {
	copsCmd.Flags().BoolVar(&copsAutocorrectable, "autocorrectable", false, "only list cops that support autocorrection")
	copsCmd.Flags().StringVar(&copsDepartment, "department", "", "only list cops of this department")
}

var copsCmd = &cobra.Command{
	Use:   "cops",
	Short: "List every registered cop",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := cops.Default()
		if copsDepartment != "" && !reg.HasDepartment(copsDepartment) {
			return fmt.Errorf("unknown department %q (known: %s)", copsDepartment, strings.Join(reg.Departments(), ", "))
		}
		writeCopTable(cmd.OutOrStdout(), reg.Entries(), func(e cop.Entry) bool {
			if copsAutocorrectable && !e.Cop.SupportsAutocorrect() {
				return false
			}
			return copsDepartment == "" || department(e.Cop.Name()) == copsDepartment
		})
		return nil
	},
}

// listEnabledCops prints the cops the resolved configuration runs.
func listEnabledCops(w io.Writer, filter *cop.Filter) error {
	writeCopTable(w, filter.Registry().Entries(), func(e cop.Entry) bool {
		return filter.Enabled(e.Index)
	})
	return nil
}

func writeCopTable(w io.Writer, entries []cop.Entry, keep func(cop.Entry) bool) {
	for _, e := range entries {
		if !keep(e) {
			continue
		}
		fmt.Fprintf(w, "%-40s %-10s %s\n", e.Cop.Name(), e.Cop.DefaultSeverity(), copTraits(e.Cop))
	}
}

func copTraits(c cop.Cop) string {
	var traits []string
	if !c.DefaultEnabled() {
		traits = append(traits, "disabled")
	}
	if p, ok := c.(cop.PendingCop); ok && p.Pending() {
		traits = append(traits, "pending")
	}
	if c.SupportsAutocorrect() {
		if u, ok := c.(cop.UnsafeCorrector); ok && u.UnsafeAutocorrect() {
			traits = append(traits, "autocorrect (unsafe)")
		} else {
			traits = append(traits, "autocorrect")
		}
	}
	return strings.Join(traits, ", ")
}

func department(name string) string {
	dept, _, _ := strings.Cut(name, "/")
	return dept
}
