// Package main implements groupbalancer, a tool for splitting scored
// participants into balanced groups.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/alecthomas/kong"

	"github.com/genes3e7/Group-Balancer/cmd/groupbalancer/command"
)

func main() {
	cli := &command.CLI{}
	parser := kong.Must(cli, &kong.Vars{"version": fmt.Sprintf("groupbalancer: %s", command.Version())},
		kong.Name("groupbalancer"),
		kong.Description("Split scored participants into balanced groups."),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)
	ctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}
	if err := ctx.Run(); err != nil {
		log.Fatal(err)
	}
}
