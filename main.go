package main

import "github.com/fernhollow/storefront/cmd"

func main() {
	cmd.Start()
}
