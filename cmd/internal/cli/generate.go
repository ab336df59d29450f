package cli

import (
	"context"
	"fmt"
	"math/rand/v2"

	"consultacnpj/cmd/internal/domain/cnpj"

	"github.com/urfave/cli/v3"
)

func generateCmd() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "Complete a 12 digit base with its verifying digits, or make up a random headquarters CNPJ",
		ArgsUsage: "[base]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "Print digits only",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			base := cnpj.Clean(cmd.Args().First())
			if base == "" {
				base = randomBase()
			}

			d1, d2, err := cnpj.CheckDigits(base)
			if err != nil {
				return err
			}

			full := fmt.Sprintf("%s%d%d", base, d1, d2)
			if !cmd.Bool("raw") {
				full = cnpj.Format(full)
			}

			_, err = fmt.Fprintln(cmd.Root().Writer, full)
			return err
		},
	}
}

// randomBase is a random 8 digit root followed by the 0001 headquarters order.
func randomBase() string {
	for {
		root := fmt.Sprintf("%08d", rand.IntN(100_000_000))
		if root != "00000000" {
			return root + "0001"
		}
	}
}
