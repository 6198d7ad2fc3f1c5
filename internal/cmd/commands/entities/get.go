package entities

import (
	"context"
	"flag"
	"fmt"

	"github.com/moonstream-to/entity_sdk_go/internal/cmd/base"
)

type GetCommand struct {
	*base.Command

	client           base.ClientFlags
	flagCollectionID string
	flagEntityID     string
}

func (c *GetCommand) Synopsis() string {
	return "Get an entity by id"
}

func (c *GetCommand) Help() string {
	return `Usage: entity entities get -collection_id <id> -entity_id <id> [options]

  Fetches an entity by id. The API answers with an array even for a
  single-id lookup; the array is printed as-is.`
}

func (c *GetCommand) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	c.client.Register(fs)
	fs.StringVar(&c.flagCollectionID, "collection_id", "", "(Required) Id of the collection")
	fs.StringVar(&c.flagEntityID, "entity_id", "", "(Required) Id of the entity")
	return fs
}

func (c *GetCommand) Run(args []string) int {
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

	records, err := client.GetEntity(context.Background(), c.flagCollectionID, c.flagEntityID)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error getting entity: %v", err))
		return 1
	}
	if err := c.PrintJSON(records); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}
