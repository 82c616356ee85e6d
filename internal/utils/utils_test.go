package utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAskConfirmation(t *testing.T) {
	cases := map[string]bool{
		"y\n":    true,
		"YES\n":  true,
		"n\n":    false,
		"\n":     false,
		"":       false,
		"sure\n": false,
	}
	for input, want := range cases {
		var out bytes.Buffer
		in := &InputUtils{In: strings.NewReader(input), Out: &out}
		assert.Equal(t, want, in.AskConfirmation("Truncate?", false), "input %q", input)
		assert.Contains(t, out.String(), "Truncate? (y/N)")
	}
}

func TestAskConfirmationForce(t *testing.T) {
	var out bytes.Buffer
	in := &InputUtils{In: strings.NewReader(""), Out: &out}
	assert.True(t, in.AskConfirmation("Truncate?", true))
	assert.Empty(t, out.String())
}

func TestGetUserChoice(t *testing.T) {
	var out bytes.Buffer
	in := &InputUtils{In: strings.NewReader("maybe\nNo\n"), Out: &out}
	assert.Equal(t, "no", in.GetUserChoice([]string{"yes", "no"}, "Continue", false))
	assert.Contains(t, out.String(), "Invalid option")

	in = &InputUtils{In: strings.NewReader(""), Out: &out}
	assert.Equal(t, "yes", in.GetUserChoice([]string{"yes", "no"}, "Continue", false))
	assert.Equal(t, "yes", in.GetUserChoice([]string{"yes", "no"}, "Continue", true))
}

func TestRenderTable(t *testing.T) {
	var out bytes.Buffer
	RenderTable(&out, []string{"table", "rows"}, [][]string{
		{"clientes", "200"},
		{"pedidos"},
	})

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Len(t, lines, 6)
	assert.Equal(t, "┌──────────┬──────┐", lines[0])
	assert.Equal(t, "│ table    │ rows │", lines[1])
	assert.Equal(t, "│ clientes │ 200  │", lines[3])
	assert.Equal(t, "│ pedidos  │      │", lines[4])
	assert.Equal(t, "└──────────┴──────┘", lines[5])
}

func TestRenderTableNoColumns(t *testing.T) {
	var out bytes.Buffer
	RenderTable(&out, nil, [][]string{{"x"}})
	assert.Empty(t, out.String())
}
