package entities

import (
	"context"
	"flag"
	"fmt"

	"github.com/moonstream-to/entity_sdk_go/internal/cmd/base"
	"github.com/moonstream-to/entity_sdk_go/pkg/entity"
)

type SearchCommand struct {
	*base.Command

	client           base.ClientFlags
	flagCollectionID string
	flagRequired     base.StringsFlag
	flagSecondary    base.StringsFlag
	flagLimit        int
	flagOffset       int
}

func (c *SearchCommand) Synopsis() string {
	return "Search entities by field value"
}

func (c *SearchCommand) Help() string {
	return `Usage: entity entities search -collection_id <id> [-required_field k=v] [-secondary_field k=v] [options]

  Searches a collection by field terms. Terms take the form "key=value" and
  the flags may be repeated.`
}

func (c *SearchCommand) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	c.client.Register(fs)
	fs.StringVar(&c.flagCollectionID, "collection_id", "", "(Required) Id of the collection")
	fs.Var(&c.flagRequired, "required_field", "Required field search term, may be repeated")
	fs.Var(&c.flagSecondary, "secondary_field", "Secondary field search term, may be repeated")
	fs.IntVar(&c.flagLimit, "limit", entity.DefaultSearchLimit, "maximum number of results")
	fs.IntVar(&c.flagOffset, "offset", 0, "result offset")
	return fs
}

func (c *SearchCommand) Run(args []string) int {
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

	result, err := client.Search(context.Background(), c.flagCollectionID, entity.SearchParams{
		RequiredFields:  c.flagRequired.Values,
		SecondaryFields: c.flagSecondary.Values,
		Limit:           c.flagLimit,
		Offset:          c.flagOffset,
	})
	if err != nil {
		c.UI.Error(fmt.Sprintf("error searching entities: %v", err))
		return 1
	}
	if err := c.PrintJSON(result); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}
