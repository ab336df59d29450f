package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"consultacnpj/cmd/internal/client"
	"consultacnpj/cmd/internal/domain/cnpj"
	"consultacnpj/cmd/internal/domain/entity"
	"consultacnpj/cmd/internal/utils/apierror"
	"consultacnpj/cmd/internal/utils/format"

	"github.com/urfave/cli/v3"
)

func lookupCmd() *cli.Command {
	return &cli.Command{
		Name:      "lookup",
		Usage:     "Fetch a company from a running consultacnpj server",
		ArgsUsage: "<cnpj>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Value:   client.DefaultServerURL,
				Usage:   "Base URL of the consultacnpj server",
				Sources: cli.EnvVars("CNPJ_SERVER"),
			},
			&cli.IntFlag{
				Name:  "retries",
				Value: client.DefaultRetries,
				Usage: "Retries after a timeout, server or network failure",
			},
			&cli.DurationFlag{
				Name:  "delay",
				Value: client.DefaultRetryDelay,
				Usage: "Fixed delay between retries",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: client.DefaultTimeout,
				Usage: "Timeout of each attempt",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the raw record as JSON",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			input := cmd.Args().First()
			if input == "" {
				return errMissingArgument
			}

			out := cmd.Root().Writer
			errOut := cmd.Root().ErrWriter
			if errOut == nil {
				errOut = out
			}

			c := client.New(cmd.String("server"),
				client.WithRetries(cmd.Int("retries")),
				client.WithRetryDelay(cmd.Duration("delay")),
				client.WithHTTPClient(&http.Client{Timeout: cmd.Duration("timeout")}),
				client.WithNotify(func(err error, next time.Duration) {
					_, _ = fmt.Fprintf(errOut, "falha na consulta (%v), tentando novamente em %s\n", err, next)
				}),
			)

			resp, err := c.Lookup(ctx, input)
			if err != nil {
				var verr *cnpj.ValidationError
				if errors.As(err, &verr) {
					return errors.New(apierror.FromCNPJError(err).Message)
				}
				return err
			}

			if cmd.Bool("json") {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp.Data)
			}
			return printCompany(out, resp.Data, resp.Cached)
		},
	}
}

func printCompany(w io.Writer, c *entity.Company, cached bool) error {
	p := &printer{w: w}

	p.line("CNPJ", cnpj.Format(c.TaxID))
	p.line("Razão social", deref(c.Company.Name))
	p.line("Nome fantasia", deref(c.Alias))
	if c.Head {
		p.line("Tipo", "Matriz")
	} else {
		p.line("Tipo", "Filial")
	}
	p.line("Situação", deref(c.Status.Text))
	if c.StatusDate != nil {
		p.line("Situação desde", format.Date(c.StatusDate.String()))
	}
	if c.Founded != nil {
		p.line("Abertura", format.Date(c.Founded.String()))
	}
	if c.Company.Nature != nil {
		p.line("Natureza jurídica", deref(c.Company.Nature.Text))
	}
	if c.Company.Size != nil {
		p.line("Porte", deref(c.Company.Size.Text))
	}
	p.line("Capital social", "R$ "+format.Currency(c.Company.Equity))
	p.line("Simples Nacional", yesNo(c.Company.Simples.Optant))
	p.line("SIMEI", yesNo(c.Company.Simei.Optant))
	p.line("Endereço", address(c.Address))

	for _, phone := range c.Phones {
		p.line("Telefone", format.Phone(phone.Area+phone.Number))
	}
	for _, email := range c.Emails {
		p.line("E-mail", email.Address)
	}
	if c.MainActivity != nil {
		p.line("Atividade principal", activity(c.MainActivity))
	}
	for _, m := range c.Company.Members {
		p.line("Sócio", strings.Join(nonEmpty(m.Person.Name, deref(m.Role.Text)), " - "))
	}
	if c.Updated != nil {
		p.line("Atualizado em", format.Time(c.Updated))
	}
	if cached {
		p.line("Origem", "cache")
	}
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(label, value string) {
	if p.err != nil || value == "" {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%-20s %s\n", label+":", value)
}

func address(a entity.Address) string {
	parts := []string{
		strings.Join(nonEmpty(deref(a.Street), deref(a.Number), deref(a.Details)), ", "),
		deref(a.District),
		strings.Join(nonEmpty(deref(a.City), deref(a.State)), "/"),
		format.CEP(deref(a.Zip)),
	}
	return strings.Join(nonEmpty(parts...), " - ")
}

func activity(a *entity.Activity) string {
	id := ""
	if a.ID != nil {
		id = strconv.Itoa(*a.ID)
	}
	return strings.Join(nonEmpty(id, deref(a.Text)), " - ")
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}
