package cmd

import (
	"fmt"
	"os"

	"github.com/paularlott/cli"
	"github.com/paularlott/neollm/internal/botconfig"
	"github.com/paularlott/neollm/internal/client"
	"github.com/paularlott/neollm/internal/editor"
	"github.com/paularlott/neollm/internal/types"
	"github.com/paularlott/neollm/log"
)

// clientFlags are shared by commands that talk to a running server.
func clientFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:         "server",
			Usage:        "Config server URL",
			DefaultValue: "http://localhost:3001",
			ConfigPath:   []string{"client.server_url"},
		},
		&cli.StringFlag{
			Name:       "token",
			Aliases:    []string{"t"},
			Usage:      "Bearer token for server authentication",
			ConfigPath: []string{"client.token"},
		},
	}
}

func clientConfigFromCommand(cmd *cli.Command) types.ClientConfig {
	return types.ClientConfig{
		ServerURL: cmd.GetString("server"),
		Token:     cmd.GetString("token"),
	}
}

func newClient(cmd *cli.Command) *client.Client {
	// Command output goes to stdout, so logs go to stderr
	log.ConfigureWriter(cmd.GetString("log-level"), cmd.GetString("log-format"), os.Stderr)
	config := clientConfigFromCommand(cmd)
	return client.New(config.ServerURL, config.Token, log.Component("client"))
}

// openSession imports a config file into a fresh session.
func openSession(path string) (*editor.Session, error) {
	session := editor.NewSession(nil)
	if err := session.ImportFile(path); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return session, nil
}

// writeNew exports session to path, refusing to replace an existing file unless force.
func writeNew(session *editor.Session, path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
	}
	return session.ExportFile(path)
}

func describe(doc *botconfig.BotConfig) string {
	segments, wakeups := 0, 0
	for _, s := range doc.Stages {
		segments += len(s.Segments)
		wakeups += len(s.Wakeups)
	}
	return fmt.Sprintf("version %d, %d stages, %d segments, %d wakeups",
		doc.Settings.Version, len(doc.Stages), segments, wakeups)
}
