// Package entities implements the entity subcommands of the entity CLI.
package entities

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mitchellh/cli"

	"github.com/moonstream-to/entity_sdk_go/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Manage entities within collections"
}

func (c *Command) Help() string {
	return `Usage: entity entities <subcommand> [options]

  This command groups subcommands for entities.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

func requireUUID(name, value string) error {
	if _, err := uuid.Parse(value); err != nil {
		return fmt.Errorf("%s must be a valid UUID: %v", name, err)
	}
	return nil
}
