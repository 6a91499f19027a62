// Command askontube ingests YouTube videos and answers questions about them.
package main

import (
	"os"

	"github.com/custodia-labs/askontube/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
