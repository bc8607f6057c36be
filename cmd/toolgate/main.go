// cmd/toolgate/main.go
package main

import (
	cmd "github.com/mwiater/toolgate/internal/cli"
)

// main starts the toolgate CLI application by delegating to the
// cobra root command defined in the toolgate package. It does not
// take any arguments and does not return a value.
func main() {
	cmd.Execute()
}
