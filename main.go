package main

import "github.com/dishcovery/dishcovery/cmd"

func main() {
	cmd.Execute()
}
