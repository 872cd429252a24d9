// Command ngi reads and edits ngi section/property files.
package main

import "github.com/mesh-intelligence/ngi/internal/cli"

func main() {
	cli.Execute()
}
