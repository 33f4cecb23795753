package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datamill-co/knots/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start a Model Context Protocol server exposing tap registration,
config submission and knot status as tools.

By default the server speaks JSON-RPC over stdio. Use --port to serve
streamable HTTP instead. The HTTP server binds 127.0.0.1 unless --host
names another interface; it has no authentication.

Examples:
  knots mcp serve
  knots --workdir ./shop mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().String("host", mcp.DefaultHost, "HTTP bind address")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	host, err := cmd.Flags().GetString("host")
	if err != nil {
		return fmt.Errorf("getting host flag: %w", err)
	}

	ports := &mcp.Ports{
		Pipeline: pipelineService,
		Taps:     tapRegistry,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		ln, err := server.Listen(mcp.ListenAddr(host, port))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s\n", ln.Addr())
		return server.Serve(cmd.Context(), ln)
	}

	return server.Run(cmd.Context())
}
