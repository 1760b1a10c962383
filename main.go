package main

import "github.com/bradleycha/cliauth-sub000/cmd"

func main() {
	cmd.Execute()
}
