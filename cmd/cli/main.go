package main

import "skiff/cmd/cli/app/cmd"

func main() {
	cmd.Execute()
}
