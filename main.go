package main

import (
	"fmt"
	"os"
	"slackgate/cmd/slackgate"
)

func main() {
	// Execute root
	if err := slackgate.Command.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
