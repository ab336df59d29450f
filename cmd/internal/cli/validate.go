package cli

import (
	"context"
	"errors"
	"fmt"

	"consultacnpj/cmd/internal/domain/cnpj"
	"consultacnpj/cmd/internal/utils/apierror"

	"github.com/urfave/cli/v3"
)

var errMissingArgument = errors.New("missing CNPJ argument")

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check the verifying digits of a CNPJ",
		ArgsUsage: "<cnpj>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			input := cmd.Args().First()
			if input == "" {
				return errMissingArgument
			}

			cleaned, err := cnpj.Validate(input)
			if err != nil {
				return errors.New(apierror.FromCNPJError(err).Message)
			}

			_, err = fmt.Fprintf(cmd.Root().Writer, "CNPJ válido: %s (%s)\n", cnpj.Format(cleaned), cleaned)
			return err
		},
	}
}

func formatCmd() *cli.Command {
	return &cli.Command{
		Name:      "format",
		Usage:     "Print a CNPJ as NN.NNN.NNN/NNNN-NN",
		ArgsUsage: "<cnpj>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			input := cmd.Args().First()
			if input == "" {
				return errMissingArgument
			}

			_, err := fmt.Fprintln(cmd.Root().Writer, cnpj.Format(input))
			return err
		},
	}
}
