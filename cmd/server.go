package cmd

import (
	"context"

	"github.com/paularlott/cli"
	"github.com/paularlott/neollm/internal/server"
)

var ServerCmd = &cli.Command{
	Name:        "server",
	Usage:       "Start the config server",
	Description: "Serve the save endpoint, saved configs, their history and the MCP endpoint",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:         "host",
			Aliases:      []string{"H"},
			Usage:        "Host to bind to",
			DefaultValue: "0.0.0.0",
			ConfigPath:   []string{"server.host"},
		},
		&cli.IntFlag{
			Name:         "port",
			Aliases:      []string{"p"},
			Usage:        "Port to bind to",
			DefaultValue: 3001,
			ConfigPath:   []string{"server.port"},
		},
		&cli.StringFlag{
			Name:       "token",
			Aliases:    []string{"t"},
			Usage:      "Bearer token required on /api and /mcp",
			ConfigPath: []string{"server.token"},
		},
		&cli.StringFlag{
			Name:         "config-dir",
			Usage:        "Directory saved configs are written to",
			DefaultValue: "./configs",
			ConfigPath:   []string{"storage.config_dir"},
		},
		&cli.StringFlag{
			Name:       "history-path",
			Usage:      "Badger directory for save history (in-memory when empty)",
			ConfigPath: []string{"history.storage_path"},
		},
		&cli.IntFlag{
			Name:         "history-ttl-days",
			Usage:        "Days a history entry is kept",
			DefaultValue: 30,
			ConfigPath:   []string{"history.ttl_days"},
		},
		&cli.IntFlag{
			Name:         "history-limit",
			Usage:        "Default number of revisions returned by the history endpoint",
			DefaultValue: 50,
			ConfigPath:   []string{"history.limit"},
		},
	},
	Run: func(ctx context.Context, cmd *cli.Command) error {
		return server.RunServer(ctx, cmd)
	},
}
