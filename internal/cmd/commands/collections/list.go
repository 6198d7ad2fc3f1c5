package collections

import (
	"context"
	"flag"
	"fmt"

	"github.com/moonstream-to/entity_sdk_go/internal/cmd/base"
)

type ListCommand struct {
	*base.Command

	client base.ClientFlags
}

func (c *ListCommand) Synopsis() string {
	return "List all collections"
}

func (c *ListCommand) Help() string {
	return `Usage: entity collections list [options]

  Lists the caller's collections in server order.`
}

func (c *ListCommand) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	c.client.Register(fs)
	return fs
}

func (c *ListCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		return 1
	}

	client, err := c.client.Client()
	if err != nil {
		c.UI.Error(fmt.Sprintf("error initializing client: %v", err))
		return 1
	}

	collections, err := client.ListCollections(context.Background())
	if err != nil {
		c.UI.Error(fmt.Sprintf("error listing collections: %v", err))
		return 1
	}
	if err := c.PrintJSON(collections); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}
