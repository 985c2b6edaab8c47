package main

import "github.com/testbridge/toolgate/internal/cli"

func main() {
	cli.Execute()
}
