package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/moonstream-to/entity_sdk_go/internal/cmd/base"
	"github.com/moonstream-to/entity_sdk_go/internal/cmd/commands/collections"
	"github.com/moonstream-to/entity_sdk_go/internal/cmd/commands/entities"
	verscmd "github.com/moonstream-to/entity_sdk_go/internal/cmd/commands/version"
)

// Commands is the mapping of all available CLI commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := &base.Command{Log: log, UI: ui}

	Commands = map[string]cli.CommandFactory{
		"collections": func() (cli.Command, error) {
			return &collections.Command{Command: b}, nil
		},
		"collections create": func() (cli.Command, error) {
			return &collections.CreateCommand{Command: b}, nil
		},
		"collections list": func() (cli.Command, error) {
			return &collections.ListCommand{Command: b}, nil
		},
		"collections delete": func() (cli.Command, error) {
			return &collections.DeleteCommand{Command: b}, nil
		},
		"entities": func() (cli.Command, error) {
			return &entities.Command{Command: b}, nil
		},
		"entities create": func() (cli.Command, error) {
			return &entities.CreateCommand{Command: b}, nil
		},
		"entities bulk": func() (cli.Command, error) {
			return &entities.BulkCommand{Command: b}, nil
		},
		"entities list": func() (cli.Command, error) {
			return &entities.ListCommand{Command: b}, nil
		},
		"entities get": func() (cli.Command, error) {
			return &entities.GetCommand{Command: b}, nil
		},
		"entities update": func() (cli.Command, error) {
			return &entities.UpdateCommand{Command: b}, nil
		},
		"entities delete": func() (cli.Command, error) {
			return &entities.DeleteCommand{Command: b}, nil
		},
		"entities search": func() (cli.Command, error) {
			return &entities.SearchCommand{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &verscmd.Command{Command: b}, nil
		},
	}
}
