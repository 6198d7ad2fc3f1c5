// Command entity is the CLI for the Entity API: collections and entities
// management plus search, wrapping pkg/entity.
package main

import (
	"os"

	"github.com/moonstream-to/entity_sdk_go/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
