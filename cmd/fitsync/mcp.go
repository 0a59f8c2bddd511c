// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio-based MCP server over the FitSync service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/stevenrego/FitSync-Pro/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout. Logs go to stderr.

CONFIGURATION:

  {
    "mcpServers": {
      "fitsync": {
        "command": "fitsync",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  set_profile          Create or update a profile
  get_profile          Show a profile with its fitness score
  nutrition_goals      Daily calorie and macro targets
  generate_plan        Build a training plan for a profile
  get_plan             Show a plan and its adjustment history
  adjust_plan          Run the difficulty review for a plan
  log_food             Log a food by ID or barcode, or a custom entry
  delete_food_entry    Delete a food log entry
  daily_totals         A day's totals, activity and goal progress
  complete_session     Finish a workout session

AVAILABLE RESOURCES:

  fitsync://profiles         Profiles with scores and goals
  fitsync://plans/recent     Recently generated plans
  fitsync://nutrition/today  Today's nutrition for every profile`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(svc, logger)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
