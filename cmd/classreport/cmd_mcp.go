package main

import (
	"context"

	"github.com/spf13/cobra"

	"classreport/internal/logging"
	mcpserver "classreport/internal/mcp"
)

func newMCPCmd(a *app) *cobra.Command {
	var flags struct {
		data string
	}
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP tool server over stdio",
		Long: `Starts an MCP server over stdin/stdout exposing load_records,
filter_options, build_report and list_records.

The server monitors for parent process death. When the client disconnects
or restarts, the server terminates instead of lingering.`,
		Args: cobra.NoArgs,
	}
	cmd.Flags().StringVar(&flags.data, "data", "", "Preload records from this file or directory")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		store, err := a.openStore(a.dataPath(flags.data), false)
		if err != nil {
			return err
		}
		mcpserver.DefaultPageSize = a.cfg.DefaultPageSize
		mcpserver.MaxPageSize = a.cfg.MaxPageSize
		srv := mcpserver.NewServer(store, version)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		mcpserver.WatchParent(ctx, cancel)

		logging.New("mcp").Info("starting MCP server over stdio (parent watchdog active)", "records", store.Len())
		return srv.Run(ctx)
	}
	return cmd
}
