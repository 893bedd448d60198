package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paularlott/cli"
	cli_toml "github.com/paularlott/cli/toml"
	"github.com/paularlott/neollm/cmd"
	"github.com/paularlott/neollm/internal/types"
)

var configFile = "neollm.toml"

func main() {
	root := &cli.Command{
		Name:        "neollm",
		Version:     types.Version,
		Usage:       "NeoLLM bot configuration tool",
		Description: "Create, edit, validate and save NeoLLM sales-bot configurations",
		ConfigFile: cli_toml.NewConfigFile(&configFile, func() []string {
			// Look for the config file in:
			//   - The current directory
			//   - The user's home directory
			//   - The user's .config directory

			paths := []string{"."}

			home, err := os.UserHomeDir()
			if err == nil {
				paths = append(paths, home)
			}

			paths = append(paths, filepath.Join(home, ".config"))
			paths = append(paths, filepath.Join(home, ".config", "neollm"))

			return paths
		}),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Configuration file path",
				AssignTo: &configFile,
				Global:   true,
			},
			&cli.StringFlag{
				Name:         "log-level",
				Usage:        "Log level (trace|debug|info|warn|error)",
				DefaultValue: "info",
				ConfigPath:   []string{"logging.level"},
				Global:       true,
			},
			&cli.StringFlag{
				Name:         "log-format",
				Usage:        "Log format (console|json)",
				DefaultValue: "console",
				ConfigPath:   []string{"logging.format"},
				Global:       true,
			},
		},
		Commands: []*cli.Command{
			cmd.ServerCmd,
			cmd.NewCmd,
			cmd.ValidateCmd,
			cmd.ExportCmd,
			cmd.StageCmd,
			cmd.BumpCmd,
			cmd.SaveCmd,
			cmd.ListCmd,
		},
	}

	if err := root.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
