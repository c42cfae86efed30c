package main

import (
	"fmt"
	"os"

	"github.com/gopalmandloi007/tradedeck/internal/cli"
	"github.com/gopalmandloi007/tradedeck/internal/config"
	"github.com/gopalmandloi007/tradedeck/internal/logging"
)

func main() {
	configDir := configDirFromArgs(os.Args[1:])
	if configDir == "" {
		configDir = config.DefaultConfigDir()
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger()

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configDirFromArgs finds --config before cobra parses flags, since the
// config file must be read to build the command tree's dependencies.
func configDirFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if len(arg) > len("--config=") && arg[:len("--config=")] == "--config=" {
			return arg[len("--config="):]
		}
	}
	return ""
}
