package main

import (
	"flag"
	"fmt"
	"os"
	"runboard/internal/di"
	"runboard/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config/config.yaml", "path to the yaml config")
	flag.BoolVar(&flags.DebugMode, "debug", false, "serve debug endpoints and verbose logs")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "runboard: %v\n", err)
		os.Exit(1)
	}
}
