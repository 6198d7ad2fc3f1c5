package entities

import (
	"context"
	"flag"
	"fmt"

	"github.com/moonstream-to/entity_sdk_go/internal/cmd/base"
)

type DeleteCommand struct {
	*base.Command

	client           base.ClientFlags
	flagCollectionID string
	flagEntityID     string
}

func (c *DeleteCommand) Synopsis() string {
	return "Delete an entity"
}

func (c *DeleteCommand) Help() string {
	return `Usage: entity entities delete -collection_id <id> -entity_id <id> [options]`
}

func (c *DeleteCommand) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	c.client.Register(fs)
	fs.StringVar(&c.flagCollectionID, "collection_id", "", "(Required) Id of the collection")
	fs.StringVar(&c.flagEntityID, "entity_id", "", "(Required) Id of the entity")
	return fs
}

func (c *DeleteCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		return 1
	}
	if err := requireUUID("collection_id", c.flagCollectionID); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	if err := requireUUID("entity_id", c.flagEntityID); err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	client, err := c.client.Client()
	if err != nil {
		c.UI.Error(fmt.Sprintf("error initializing client: %v", err))
		return 1
	}

	record, err := client.DeleteEntity(context.Background(), c.flagCollectionID, c.flagEntityID)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error deleting entity: %v", err))
		return 1
	}
	if err := c.PrintJSON(record); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}
