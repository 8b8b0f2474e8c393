package main

import "projectkeeper/cmd/projectkeeper-cli/cmd"

func main() {
	cmd.Execute()
}
