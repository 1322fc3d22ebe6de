package main

import "github.com/sinawise/sinawise-server/cmd/sinawise-server/cmd"

func main() {
	cmd.Execute()
}
