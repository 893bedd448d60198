package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/paularlott/cli"
	"github.com/paularlott/neollm/internal/botconfig"
	"github.com/paularlott/neollm/internal/editor"
	"github.com/paularlott/neollm/internal/seed"
)

var NewCmd = &cli.Command{
	Name:        "new",
	Usage:       "Create a bot config file",
	Description: "Create an empty bot config, one seeded from a TOML persona file, or the demo config",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "persona",
			Usage: "TOML persona file to seed the config from",
		},
		&cli.BoolFlag{
			Name:  "sample",
			Usage: "Start from the demo diving-school config",
		},
		&cli.StringFlag{
			Name:         "out",
			Aliases:      []string{"o"},
			Usage:        "File to write",
			DefaultValue: editor.DefaultDownloadName,
		},
		&cli.BoolFlag{
			Name:  "force",
			Usage: "Overwrite an existing file",
		},
	},
	Run: func(ctx context.Context, cmd *cli.Command) error {
		persona := cmd.GetString("persona")
		sample := cmd.GetBool("sample")
		if persona != "" && sample {
			return errors.New("--persona and --sample cannot be combined")
		}

		var doc *botconfig.BotConfig
		switch {
		case persona != "":
			seeded, err := seed.Load(persona)
			if err != nil {
				return err
			}
			doc = seeded
		case sample:
			doc = botconfig.Sample()
		}

		out := cmd.GetString("out")
		if err := writeNew(editor.NewSession(doc), out, cmd.GetBool("force")); err != nil {
			return err
		}
		fmt.Printf("Created %s\n", out)
		return nil
	},
}

var ValidateCmd = &cli.Command{
	Name:        "validate",
	Usage:       "Check a bot config file",
	Description: "Import a bot config file and report every problem found, or a short summary when it is valid",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:     "file",
			Required: true,
			Usage:    "Config file to check",
		},
	},
	Run: func(ctx context.Context, cmd *cli.Command) error {
		path := cmd.GetStringArg("file")
		session, err := openSession(path)
		if err != nil {
			var verr *botconfig.ValidationError
			if errors.As(err, &verr) {
				for _, p := range verr.Problems {
					fmt.Fprintf(os.Stderr, "  %s\n", p)
				}
			}
			return err
		}

		fmt.Printf("%s: ok, %s\n", path, describe(session.Store.Document()))
		return nil
	},
}

var ExportCmd = &cli.Command{
	Name:        "export",
	Usage:       "Normalise a bot config file",
	Description: "Import a bot config, fill in missing defaults, refresh created_at and write it back out",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:     "file",
			Required: true,
			Usage:    "Config file to export",
		},
	},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "File to write (stdout when empty)",
		},
	},
	Run: func(ctx context.Context, cmd *cli.Command) error {
		session, err := openSession(cmd.GetStringArg("file"))
		if err != nil {
			return err
		}

		out := cmd.GetString("out")
		if out == "" {
			data, err := session.Store.Export()
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}
		return session.ExportFile(out)
	},
}

var BumpCmd = &cli.Command{
	Name:        "bump",
	Usage:       "Increment the config version",
	Description: "Increment config.version of a bot config file in place",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:     "file",
			Required: true,
			Usage:    "Config file to update",
		},
	},
	Run: func(ctx context.Context, cmd *cli.Command) error {
		path := cmd.GetStringArg("file")
		session, err := openSession(path)
		if err != nil {
			return err
		}

		version := session.Store.BumpVersion()
		if err := session.ExportFile(path); err != nil {
			return err
		}
		fmt.Printf("%s: version %d\n", path, version)
		return nil
	},
}
