// Command piecebuf runs an interactive piece buffer session.
package main

import "github.com/piecebuf/piecebuf/piecebuf/cmd"

func main() {
	cmd.Execute()
}
