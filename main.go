package main

import "github.com/twiced-technology-gmbh/taskboard/cmd"

func main() {
	cmd.Execute()
}
