// Package version implements the version subcommand.
package version

import (
	"github.com/moonstream-to/entity_sdk_go/internal/cmd/base"
	"github.com/moonstream-to/entity_sdk_go/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the CLI version"
}

func (c *Command) Help() string {
	return `Usage: entity version`
}

func (c *Command) Run(args []string) int {
	c.UI.Output(version.Version)
	return 0
}
