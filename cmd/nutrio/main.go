// Command nutrio plans meals, scales nutrition and builds grocery lists from
// a local SQLite database.
package main

import (
	"os"

	"github.com/mesh-intelligence/nutrio/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
