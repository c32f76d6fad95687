package config

import (
	"flag"
	"os"

	"github.com/annavlsk/closetkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN of the document store
//	-l string   path to the local identity-cache database
//	-p int      page size for catalog listings
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-l", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "PostgreSQL DSN of the document store")
	fs.StringVar(&cfg.LocalDBPath, "l", cfg.LocalDBPath, "path to the local identity cache database")
	fs.IntVar(&cfg.PageSize, "p", cfg.PageSize, "page size for catalog listings")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
