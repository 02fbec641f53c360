package main

import "github.com/comitanigiacomo/kanso-nutrition/internal/cli"

func main() {
	cli.Execute()
}
