package cmd

import (
	"context"
	"fmt"

	"github.com/paularlott/cli"
	"github.com/paularlott/neollm/internal/editor"
)

func fileArg() cli.Argument {
	return &cli.StringArg{
		Name:     "file",
		Required: true,
		Usage:    "Config file to edit",
	}
}

// editFile applies fn to the config at path and writes it back when fn reports a change.
func editFile(path string, fn func(s *editor.Session) (string, error)) error {
	session, err := openSession(path)
	if err != nil {
		return err
	}
	msg, err := fn(session)
	if err != nil {
		return err
	}
	if err := session.ExportFile(path); err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

var StageCmd = &cli.Command{
	Name:        "stage",
	Usage:       "List and edit the stages of a bot config file",
	Description: "Stage operations on a config file; the file is rewritten in place",
	Commands: []*cli.Command{
		{
			Name:      "list",
			Usage:     "List stages in order",
			Arguments: []cli.Argument{fileArg()},
			Run: func(ctx context.Context, cmd *cli.Command) error {
				session, err := openSession(cmd.GetStringArg("file"))
				if err != nil {
					return err
				}
				for i, s := range session.Store.Document().Stages {
					terminal := ""
					if s.Terminal != "" {
						terminal = " (terminal)"
					}
					fmt.Printf("%d. %s%s: %d segments, %d wakeups\n", i+1, s.Name, terminal, len(s.Segments), len(s.Wakeups))
				}
				return nil
			},
		},
		{
			Name:  "add",
			Usage: "Append a new stage",
			Arguments: []cli.Argument{
				fileArg(),
				&cli.StringArg{
					Name:  "name",
					Usage: "Stage name (New Stage N when omitted)",
				},
			},
			Run: func(ctx context.Context, cmd *cli.Command) error {
				name := cmd.GetStringArg("name")
				return editFile(cmd.GetStringArg("file"), func(s *editor.Session) (string, error) {
					stage := s.AddStage()
					if name != "" && name != stage.Name {
						if !s.RenameStage(stage.Name, name) {
							return "", fmt.Errorf("stage %q already exists", name)
						}
						return "Added " + name, nil
					}
					return "Added " + stage.Name, nil
				})
			},
		},
		{
			Name:  "delete",
			Usage: "Delete a stage",
			Arguments: []cli.Argument{
				fileArg(),
				&cli.StringArg{Name: "name", Required: true, Usage: "Stage to delete"},
			},
			Run: func(ctx context.Context, cmd *cli.Command) error {
				name := cmd.GetStringArg("name")
				return editFile(cmd.GetStringArg("file"), func(s *editor.Session) (string, error) {
					if !s.DeleteStage(name) {
						return "", fmt.Errorf("stage %q not found", name)
					}
					return "Deleted " + name, nil
				})
			},
		},
		{
			Name:  "move",
			Usage: "Move a stage to the position of another",
			Arguments: []cli.Argument{
				fileArg(),
				&cli.StringArg{Name: "from", Required: true, Usage: "Stage to move"},
				&cli.StringArg{Name: "to", Required: true, Usage: "Stage whose position it takes"},
			},
			Run: func(ctx context.Context, cmd *cli.Command) error {
				from, to := cmd.GetStringArg("from"), cmd.GetStringArg("to")
				return editFile(cmd.GetStringArg("file"), func(s *editor.Session) (string, error) {
					if !s.Store.ReorderStages(from, to) {
						return "", fmt.Errorf("cannot move %q to %q", from, to)
					}
					return fmt.Sprintf("Moved %s to the position of %s", from, to), nil
				})
			},
		},
		{
			Name:  "rename",
			Usage: "Rename a stage",
			Arguments: []cli.Argument{
				fileArg(),
				&cli.StringArg{Name: "from", Required: true, Usage: "Current name"},
				&cli.StringArg{Name: "to", Required: true, Usage: "New name"},
			},
			Run: func(ctx context.Context, cmd *cli.Command) error {
				from, to := cmd.GetStringArg("from"), cmd.GetStringArg("to")
				return editFile(cmd.GetStringArg("file"), func(s *editor.Session) (string, error) {
					if !s.RenameStage(from, to) {
						return "", fmt.Errorf("cannot rename %q to %q", from, to)
					}
					return fmt.Sprintf("Renamed %s to %s", from, to), nil
				})
			},
		},
	},
}
