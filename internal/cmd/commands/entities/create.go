package entities

import (
	"context"
	"flag"
	"fmt"

	"github.com/moonstream-to/entity_sdk_go/internal/cmd/base"
	"github.com/moonstream-to/entity_sdk_go/pkg/entity"
)

type CreateCommand struct {
	*base.Command

	client           base.ClientFlags
	flagCollectionID string
	flagAddress      string
	flagBlockchain   string
	flagName         string
	flagRequired     base.FieldMapsFlag
	flagSecondary    base.FieldMapsFlag
}

func (c *CreateCommand) Synopsis() string {
	return "Create an entity"
}

func (c *CreateCommand) Help() string {
	return `Usage: entity entities create -collection_id <id> -address <addr> -blockchain <chain> -name <name> [options]

  Creates an entity in a collection. The -required_field and -secondary_field
  flags take JSON object literals and may be repeated.`
}

func (c *CreateCommand) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	c.client.Register(fs)
	fs.StringVar(&c.flagCollectionID, "collection_id", "", "(Required) Id of the collection")
	fs.StringVar(&c.flagAddress, "address", "", "(Required) Blockchain address")
	fs.StringVar(&c.flagBlockchain, "blockchain", "", "(Required) Blockchain")
	fs.StringVar(&c.flagName, "name", "", "(Required) Name of the entity")
	fs.Var(&c.flagRequired, "required_field", "Required field as a JSON object, may be repeated")
	fs.Var(&c.flagSecondary, "secondary_field", "Secondary field as a JSON object, may be repeated")
	return fs
}

func (c *CreateCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		return 1
	}
	if err := requireUUID("collection_id", c.flagCollectionID); err != nil {
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

	record, err := client.CreateEntity(context.Background(), c.flagCollectionID, entity.Entity{
		Address:        c.flagAddress,
		Blockchain:     c.flagBlockchain,
		Name:           c.flagName,
		RequiredFields: c.flagRequired.Fields,
		Content:        c.flagSecondary.Merged(),
	})
	if err != nil {
		c.UI.Error(fmt.Sprintf("error creating entity: %v", err))
		return 1
	}
	if err := c.PrintJSON(record); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}
