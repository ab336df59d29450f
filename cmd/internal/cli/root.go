package cli

import (
	"github.com/urfave/cli/v3"
)

const name = "cnpj"

// overridden during build with ldflags
var version = "dev"

// NewCommand builds the cnpj command line client.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Validate, format and look up Brazilian company registrations (CNPJ)",
		Version: version,
		Commands: []*cli.Command{
			validateCmd(),
			formatCmd(),
			generateCmd(),
			lookupCmd(),
		},
	}
}
