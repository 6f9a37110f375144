package main

import "github.com/placefeed/placefeed/cmd/placefeed/cmd"

func main() {
	cmd.Execute()
}
