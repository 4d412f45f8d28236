package main

import "github.com/jjenkins/nichefinder/cmd"

func main() {
	cmd.Execute()
}
