package collections

import (
	"context"
	"flag"
	"fmt"

	"github.com/moonstream-to/entity_sdk_go/internal/cmd/base"
)

type CreateCommand struct {
	*base.Command

	client   base.ClientFlags
	flagName string
}

func (c *CreateCommand) Synopsis() string {
	return "Create a collection for entities"
}

func (c *CreateCommand) Help() string {
	return `Usage: entity collections create -name <name> [options]

  Creates a named collection and prints it with its server-assigned id.`
}

func (c *CreateCommand) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	c.client.Register(fs)
	fs.StringVar(&c.flagName, "name", "", "(Required) Name of the collection")
	return fs
}

func (c *CreateCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		return 1
	}
	if c.flagName == "" {
		c.UI.Error("name flag is required")
		return 1
	}

	client, err := c.client.Client()
	if err != nil {
		c.UI.Error(fmt.Sprintf("error initializing client: %v", err))
		return 1
	}

	collection, err := client.CreateCollection(context.Background(), c.flagName)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error creating collection: %v", err))
		return 1
	}
	if err := c.PrintJSON(collection); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}
