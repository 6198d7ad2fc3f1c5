package entities

import (
	"context"
	"flag"
	"fmt"

	"github.com/moonstream-to/entity_sdk_go/internal/cmd/base"
	"github.com/moonstream-to/entity_sdk_go/pkg/entity"
)

type UpdateCommand struct {
	*base.Command

	client           base.ClientFlags
	flagCollectionID string
	flagEntityID     string
	flagAddress      string
	flagBlockchain   string
	flagName         string
	flagRequired     base.FieldMapsFlag
	flagSecondary    base.FieldMapsFlag
}

func (c *UpdateCommand) Synopsis() string {
	return "Replace an entity"
}

func (c *UpdateCommand) Help() string {
	return `Usage: entity entities update -collection_id <id> -entity_id <id> -address <addr> -blockchain <chain> -name <name> [options]

  Replaces the entity with the given body. The update is a full replacement,
  not a patch: fields left off the command line are cleared.`
}

func (c *UpdateCommand) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	c.client.Register(fs)
	fs.StringVar(&c.flagCollectionID, "collection_id", "", "(Required) Id of the collection")
	fs.StringVar(&c.flagEntityID, "entity_id", "", "(Required) Id of the entity")
	fs.StringVar(&c.flagAddress, "address", "", "(Required) Ethereum address of the entity")
	fs.StringVar(&c.flagBlockchain, "blockchain", "", "(Required) Blockchain of the entity")
	fs.StringVar(&c.flagName, "name", "", "(Required) Name of the entity")
	fs.Var(&c.flagRequired, "required_field", "Required field as a JSON object, may be repeated")
	fs.Var(&c.flagSecondary, "secondary_field", "Secondary field as a JSON object, may be repeated")
	return fs
}

func (c *UpdateCommand) Run(args []string) int {
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
	if c.flagAddress == "" || c.flagBlockchain == "" || c.flagName == "" {
		c.UI.Error("address, blockchain and name flags are required")
		return 1
	}

	client, err := c.client.Client()
	if err != nil {
		c.UI.Error(fmt.Sprintf("error initializing client: %v", err))
		return 1
	}

	record, err := client.UpdateEntity(context.Background(), c.flagCollectionID, c.flagEntityID, entity.Entity{
		Address:        c.flagAddress,
		Blockchain:     c.flagBlockchain,
		Name:           c.flagName,
		RequiredFields: c.flagRequired.Fields,
		Content:        c.flagSecondary.Merged(),
	})
	if err != nil {
		c.UI.Error(fmt.Sprintf("error updating entity: %v", err))
		return 1
	}
	if err := c.PrintJSON(record); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}
