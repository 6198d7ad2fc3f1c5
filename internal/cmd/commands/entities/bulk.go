package entities

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"

	"github.com/moonstream-to/entity_sdk_go/internal/cmd/base"
	"github.com/moonstream-to/entity_sdk_go/pkg/entity"
)

type BulkCommand struct {
	*base.Command

	client           base.ClientFlags
	flagCollectionID string
	flagBlockchain   string
	flagRequired     base.FieldMapsFlag
	flagSecondary    base.FieldMapsFlag
	flagInput        string
}

func (c *BulkCommand) Synopsis() string {
	return "Create a pack of entities from a CSV file"
}

func (c *BulkCommand) Help() string {
	return `Usage: entity entities bulk -collection_id <id> -blockchain <chain> -input <file.csv> [options]

  Loads entities from a CSV file and creates them in one request. The header
  row names each column; "address" and "name" fill the fixed fields and every
  other column becomes a secondary field. The -required_field and
  -secondary_field flags apply to every row.`
}

func (c *BulkCommand) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("bulk", flag.ContinueOnError)
	c.client.Register(fs)
	fs.StringVar(&c.flagCollectionID, "collection_id", "", "(Required) Id of the collection")
	fs.StringVar(&c.flagBlockchain, "blockchain", "", "(Required) Blockchain applied to every row")
	fs.Var(&c.flagRequired, "required_field", "Required field as a JSON object, may be repeated")
	fs.Var(&c.flagSecondary, "secondary_field", "Secondary field as a JSON object, may be repeated")
	fs.StringVar(&c.flagInput, "input", "", "(Required) Input CSV file path")
	return fs
}

func (c *BulkCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		return 1
	}
	if err := requireUUID("collection_id", c.flagCollectionID); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	if c.flagBlockchain == "" || c.flagInput == "" {
		c.UI.Error("blockchain and input flags are required")
		return 1
	}

	entities, err := c.loadCSV()
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading CSV: %v", err))
		return 1
	}

	client, err := c.client.Client()
	if err != nil {
		c.UI.Error(fmt.Sprintf("error initializing client: %v", err))
		return 1
	}

	records, err := client.CreateEntitiesBulk(context.Background(), c.flagCollectionID, entities)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error creating entities: %v", err))
		return 1
	}
	if err := c.PrintJSON(records); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}

func (c *BulkCommand) loadCSV() ([]entity.Entity, error) {
	f, err := os.Open(c.flagInput)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV file %s is empty", c.flagInput)
	}

	headers := rows[0]
	secondary := c.flagSecondary.Merged()

	entities := make([]entity.Entity, 0, len(rows)-1)
	for _, row := range rows[1:] {
		e := entity.Entity{
			Blockchain:     c.flagBlockchain,
			RequiredFields: c.flagRequired.Fields,
			Content:        entity.FieldMap{},
		}
		for i, cell := range row {
			if i >= len(headers) {
				break
			}
			switch headers[i] {
			case "address":
				e.Address = cell
			case "name":
				e.Name = cell
			default:
				e.Content[headers[i]] = entity.String(cell)
			}
		}
		// Shared secondary fields overwrite per-row columns.
		for k, v := range secondary {
			e.Content[k] = v
		}
		entities = append(entities, e)
	}
	return entities, nil
}
