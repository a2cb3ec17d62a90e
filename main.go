package main

import (
	"log"

	"github.com/jwaldrip/odin/cli"

	"github.com/mudesheng/ga-iterate/config"
	"github.com/mudesheng/ga-iterate/iterate"
)

var app = cli.New("1.0.0", "iterative k-mer extension core of a de Bruijn graph genome assembler", func(c cli.Command) {})

func init() {
	it := app.DefineSubCommand("iterate", "advance contigs and reads from k to k+s", iterateCmd)
	config.Define(it)
}

func iterateCmd(c cli.Command) {
	opt, err := config.FromCommand(c)
	if err != nil {
		log.Fatalf("[iterate] %v\n", err)
	}
	if err := iterate.Run(opt); err != nil {
		log.Fatalf("[iterate] %v\n", err)
	}
}

func main() {
	app.Start()
}
