package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/paularlott/cli"
	"github.com/paularlott/neollm/log"
)

var SaveCmd = &cli.Command{
	Name:        "save",
	Usage:       "Save a bot config to the server",
	Description: "Send a bot config file to a running config server",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:     "file",
			Required: true,
			Usage:    "Config file to save",
		},
	},
	Flags: append(clientFlags(),
		&cli.StringFlag{
			Name:    "name",
			Aliases: []string{"n"},
			Usage:   "Name to save under (file name without .json by default)",
		},
		&cli.BoolFlag{
			Name:  "force",
			Usage: "Overwrite a config the server already has",
		},
	),
	Run: func(ctx context.Context, cmd *cli.Command) error {
		session, err := openSession(cmd.GetStringArg("file"))
		if err != nil {
			return err
		}
		if name := cmd.GetString("name"); name != "" {
			session.Name = name
		}

		c := newClient(cmd)
		logger := log.GetLogger()

		name := strings.TrimSpace(session.Name)
		if !cmd.GetBool("force") && name != "" {
			exists, err := c.Exists(ctx, name)
			if err != nil {
				return fmt.Errorf("failed to check for existing config: %w", err)
			}
			if exists {
				return fmt.Errorf("config %q already exists on the server, use --force to overwrite", name)
			}
		}

		if err := session.Persist(ctx, c); err != nil {
			return err
		}

		logger.Debug("config saved", "name", name, "server", c.BaseURL)
		fmt.Printf("Saved %s\n", name)
		return nil
	},
}

var ListCmd = &cli.Command{
	Name:        "list",
	Usage:       "List configs saved on the server",
	Description: "List the configs held by a running config server",
	Flags:       clientFlags(),
	Run: func(ctx context.Context, cmd *cli.Command) error {
		configs, err := newClient(cmd).List(ctx)
		if err != nil {
			return err
		}
		for _, c := range configs {
			fmt.Printf("%s\t%d bytes\t%s\n", c.Name, c.Size, c.ModifiedAt.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}
