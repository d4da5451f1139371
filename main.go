package main

import "blogstore/cli"

func main() {
	cli.Execute()
}
