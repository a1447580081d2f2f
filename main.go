package main

import "github.com/devicelab-dev/interaction-recorder/pkg/cli"

func main() {
	cli.Execute()
}
