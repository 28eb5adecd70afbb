package main

import "github.com/mcoot/trucogame-go/internal/cli"

func main() {
	cli.Execute()
}
