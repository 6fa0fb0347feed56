package main

import "github.com/chemclerk/chemclerk/cmd"

func main() {
	cmd.Execute()
}
