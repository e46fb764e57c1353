package main

import "github.com/CDNamchu/plume/cmd"

func main() {
	cmd.Execute()
}
