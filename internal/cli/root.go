// Package cli implements the diet-dashboard commands.
package cli

import (
	"github.com/spf13/cobra"
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "diet-dashboard",
	Short: "Web dashboard for the diet photo diary",
	Long:  "Serves the diet photo diary dashboard: login, day-grouped meal view, photo upload and PDF reports, backed by the diary API or built-in demo data.",
}
