// Command streak is a personal task and habit tracker.
package main

import "github.com/xvierd/streak-cli/cmd"

func main() {
	cmd.Execute()
}
