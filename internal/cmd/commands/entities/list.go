package entities

import (
	"context"
	"flag"
	"fmt"

	"github.com/moonstream-to/entity_sdk_go/internal/cmd/base"
)

type ListCommand struct {
	*base.Command

	client           base.ClientFlags
	flagCollectionID string
}

func (c *ListCommand) Synopsis() string {
	return "List all entities in a collection"
}

func (c *ListCommand) Help() string {
	return `Usage: entity entities list -collection_id <id> [options]`
}

func (c *ListCommand) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	c.client.Register(fs)
	fs.StringVar(&c.flagCollectionID, "collection_id", "", "(Required) Id of the collection")
	return fs
}

func (c *ListCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		return 1
	}
	if err := requireUUID("collection_id", c.flagCollectionID); err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	client, err := c.client.Client()
	if err != nil {
		c.UI.Error(fmt.Sprintf("error initializing client: %v", err))
		return 1
	}

	records, err := client.ListEntities(context.Background(), c.flagCollectionID)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error listing entities: %v", err))
		return 1
	}
	if err := c.PrintJSON(records); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}
