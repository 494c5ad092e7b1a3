package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/broady/sigprop/cmd/sigprop/internal/check"
	"github.com/broady/sigprop/cmd/sigprop/internal/inspect"
	"github.com/broady/sigprop/cmd/sigprop/internal/run"
	"github.com/broady/sigprop/cmd/sigprop/internal/sample"
)

type CLI struct {
	Version VersionCmd  `cmd:"" help:"Print version information."`
	Check   check.Cmd   `cmd:"" help:"Compile signatures and report callables that cannot be tested."`
	Inspect inspect.Cmd `cmd:"" help:"Print compiled descriptors and oracles as JSON."`
	Sample  sample.Cmd  `cmd:"" help:"Draw example arguments for one callable."`
	Run     run.Cmd     `cmd:"" help:"Check a Go package's callables against their signatures."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("sigprop"),
		kong.Description("Property-based tests derived from callable signatures."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
