package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"consultacnpj/cmd/internal/domain/cnpj"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lookupBody = `{"error":false,"cached":false,"data":{
  "taxId":"11222333000181","alias":"EXEMPLO","head":true,"founded":"2010-01-01",
  "status":{"id":2,"text":"Ativa"},
  "company":{"name":"EMPRESA EXEMPLO LTDA","equity":12345.67,"size":{"id":1,"acronym":"ME","text":"Micro Empresa"},
    "simples":{"optant":true,"since":"2010-01-01"},"simei":{"optant":false,"since":null},
    "members":[{"since":"2010-05-01","person":{"name":"FULANO DE TAL"},"role":{"id":49,"text":"Sócio-Administrador"}}]},
  "address":{"street":"AVENIDA PAULISTA","number":"1000","district":"BELA VISTA","city":"São Paulo","state":"SP","zip":"01310100"},
  "phones":[{"area":"11","number":"33334444","type":"LANDLINE"}],
  "emails":[{"address":"contato@exemplo.com.br","ownership":"CORPORATE","domain":"exemplo.com.br"}],
  "mainActivity":{"id":6201501,"text":"Desenvolvimento de programas de computador sob encomenda"},
  "sideActivities":[],"registrations":[],"suframa":[]
}}`

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewCommand()
	cmd.Writer = &out
	cmd.ErrWriter = &errOut
	err := cmd.Run(context.Background(), append([]string{name}, args...))
	return out.String(), errOut.String(), err
}

func TestValidate(t *testing.T) {
	out, _, err := run(t, "validate", "11222333000181")
	require.NoError(t, err)
	assert.Equal(t, "CNPJ válido: 11.222.333/0001-81 (11222333000181)\n", out)

	_, _, err = run(t, "validate", "11.222.333/0001-82")
	require.Error(t, err)
	assert.Equal(t, "CNPJ inválido: dígitos verificadores não conferem", err.Error())

	_, _, err = run(t, "validate", "123")
	require.Error(t, err)
	assert.Equal(t, "CNPJ deve conter 14 dígitos", err.Error())

	_, _, err = run(t, "validate")
	assert.ErrorIs(t, err, errMissingArgument)
}

func TestFormat(t *testing.T) {
	out, _, err := run(t, "format", "11222333000181")
	require.NoError(t, err)
	assert.Equal(t, "11.222.333/0001-81\n", out)

	out, _, err = run(t, "format", "11.222.333/0001-81")
	require.NoError(t, err)
	assert.Equal(t, "11.222.333/0001-81\n", out)

	out, _, err = run(t, "format", "12345")
	require.NoError(t, err)
	assert.Equal(t, "12345\n", out)
}

func TestGenerate(t *testing.T) {
	out, _, err := run(t, "generate", "112223330001")
	require.NoError(t, err)
	assert.Equal(t, "11.222.333/0001-81\n", out)

	out, _, err = run(t, "generate", "--raw")
	require.NoError(t, err)
	generated := strings.TrimSpace(out)
	assert.Len(t, generated, 14)
	assert.True(t, cnpj.IsValid(generated), generated)

	_, _, err = run(t, "generate", "123")
	assert.Error(t, err)
}

func TestLookup_PrintsSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cnpj", r.URL.Path)
		assert.Equal(t, "11222333000181", r.URL.Query().Get("cnpj"))
		_, _ = w.Write([]byte(lookupBody))
	}))
	defer srv.Close()

	out, _, err := run(t, "lookup", "--server", srv.URL, "11.222.333/0001-81")
	require.NoError(t, err)

	for _, want := range []string{
		"CNPJ:                11.222.333/0001-81",
		"Razão social:        EMPRESA EXEMPLO LTDA",
		"Tipo:                Matriz",
		"Abertura:            01/01/2010",
		"Capital social:      R$ 12.345,67",
		"Simples Nacional:    Sim",
		"Endereço:            AVENIDA PAULISTA, 1000 - BELA VISTA - São Paulo/SP - 01310-100",
		"Telefone:            (11) 3333-4444",
		"Atividade principal: 6201501 - Desenvolvimento de programas de computador sob encomenda",
		"Sócio:               FULANO DE TAL - Sócio-Administrador",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Origem")
}

func TestLookup_JSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(lookupBody))
	}))
	defer srv.Close()

	out, _, err := run(t, "lookup", "--server", srv.URL, "--json", "11222333000181")
	require.NoError(t, err)
	assert.Contains(t, out, `"taxId": "11222333000181"`)
}

func TestLookup_RetriesThenReports(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":true,"message":"Serviço de consulta temporariamente indisponível"}`))
	}))
	defer srv.Close()

	_, errOut, err := run(t, "lookup", "--server", srv.URL, "--retries", "2", "--delay", "1ms", "11222333000181")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Serviço de consulta temporariamente indisponível")
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 2, strings.Count(errOut, "tentando novamente"))
}

func TestLookup_InvalidInputSkipsServer(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	_, _, err := run(t, "lookup", "--server", srv.URL, "11111111111111")
	require.Error(t, err)
	assert.Equal(t, "CNPJ inválido: todos os dígitos são iguais", err.Error())
	assert.Zero(t, calls.Load())
}
