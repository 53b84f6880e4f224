package main

import (
	"os"
	"path/filepath"

	"github.com/OpenPeeDeeP/xdg"
	flags "github.com/jessevdk/go-flags"
)

const configFilename = "config.ini"

// defaultConfigPath is where the config file is looked up when --config is
// not given, e.g. ~/.config/sl4a/client/config.ini.
func defaultConfigPath() string {
	return filepath.Join(xdg.New("sl4a", "client").ConfigHome(), configFilename)
}

// loadConfig fills parser's options from an ini file. Options use their long
// names under an [Application Options] section:
//
//	[Application Options]
//	host = 192.168.1.20
//	port = 45001
//	timeout = 10s
//
// A missing file is only an error when it was asked for explicitly.
func loadConfig(parser *flags.Parser, path string, explicit bool) error {
	if _, err := os.Stat(path); os.IsNotExist(err) && !explicit {
		return nil
	}
	return flags.NewIniParser(parser).ParseFile(path)
}

// parseOptions reads options from the config file and then the command line,
// which takes precedence. AP_HOST and AP_PORT are picked up by go-flags as env
// defaults.
func parseOptions(args []string) (*Options, *flags.Parser, error) {
	// First pass only looks for --config.
	var pre Options
	if _, err := flags.NewParser(&pre, flags.IgnoreUnknown).ParseArgs(args); err != nil {
		pre.Config = ""
	}
	configPath, explicit := pre.Config, pre.Config != ""
	if !explicit {
		configPath = defaultConfigPath()
	}

	options := &Options{}
	parser := flags.NewParser(options, flags.Default)
	if err := loadConfig(parser, configPath, explicit); err != nil {
		return nil, parser, err
	}
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, parser, err
	}
	return options, parser, nil
}
