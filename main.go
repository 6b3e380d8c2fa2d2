package main

import "github.com/Mohsinsiddi/tonscope/cmd"

func main() {
	cmd.Execute()
}
