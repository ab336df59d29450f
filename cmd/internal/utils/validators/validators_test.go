package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCNPJTag(t *testing.T) {
	v := New()

	assert.NoError(t, v.Var("11.222.333/0001-81", "cnpj"))
	assert.NoError(t, v.Var("11222333000181", "required,cnpj"))
	assert.Error(t, v.Var("11222333000182", "cnpj"))
	assert.Error(t, v.Var("11111111111111", "cnpj"))
	assert.Error(t, v.Var(12345, "cnpj"))
}

func TestDigitsTag(t *testing.T) {
	v := New()

	assert.NoError(t, v.Var("0123", "digits"))
	assert.Error(t, v.Var("12a", "digits"))
	assert.Error(t, v.Var("", "digits"))
}

func TestNoSpacesTag(t *testing.T) {
	type req struct {
		Value string `validate:"nospaces"`
	}
	v := New()

	assert.NoError(t, v.Struct(req{Value: "abc"}))
	assert.Error(t, v.Struct(req{Value: "a b"}))
}
