// Package cli defines the tsbridge command tree.
//
// Commands:
//
//	start    run the bridge until interrupted
//	migrate  apply or inspect the TimescaleDB schema migrations
//	config   print a commented sample config.toml
//	version  print build information
//
// Configuration resolution order is flags over environment variables
// over the config file over built-in defaults; see the config package.
package cli
