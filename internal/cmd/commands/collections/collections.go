// Package collections implements the collection subcommands of the entity
// CLI.
package collections

import (
	"github.com/mitchellh/cli"

	"github.com/moonstream-to/entity_sdk_go/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Manage entity collections"
}

func (c *Command) Help() string {
	return `Usage: entity collections <subcommand> [options]

  This command groups subcommands for entity collections.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}
