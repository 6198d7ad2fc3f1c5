package collections

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/uuid"

	"github.com/moonstream-to/entity_sdk_go/internal/cmd/base"
)

type DeleteCommand struct {
	*base.Command

	client           base.ClientFlags
	flagCollectionID string
}

func (c *DeleteCommand) Synopsis() string {
	return "Delete an entity collection"
}

func (c *DeleteCommand) Help() string {
	return `Usage: entity collections delete -collection_id <id> [options]

  Deletes a collection and prints its last known state.`
}

func (c *DeleteCommand) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	c.client.Register(fs)
	fs.StringVar(&c.flagCollectionID, "collection_id", "", "(Required) Id of the collection")
	return fs
}

func (c *DeleteCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		return 1
	}
	if _, err := uuid.Parse(c.flagCollectionID); err != nil {
		c.UI.Error(fmt.Sprintf("collection_id must be a valid UUID: %v", err))
		return 1
	}

	client, err := c.client.Client()
	if err != nil {
		c.UI.Error(fmt.Sprintf("error initializing client: %v", err))
		return 1
	}

	collection, err := client.DeleteCollection(context.Background(), c.flagCollectionID)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error deleting collection: %v", err))
		return 1
	}
	if err := c.PrintJSON(collection); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}
