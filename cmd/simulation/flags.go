package main

import "flag"

var (
	// configFlag selects the configuration file, JSON or TOML by extension. Empty runs the defaults.
	configFlag = flag.String("config", "configs/config.json", "path to a .json or .toml configuration file, empty for built-in defaults")

	// schemaFlag is the JSON schema every configuration is validated against.
	schemaFlag = flag.String("schema", "configs/config.schema.json", "path to the configuration JSON schema")

	debugFlag = flag.Bool("debug", false, "log actor system activity at debug level")
)
