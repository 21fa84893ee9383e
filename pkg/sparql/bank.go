package sparql

import (
	"fmt"
	"strings"

	ksparql "github.com/knakk/sparql"
)

// Bank is a set of tagged query templates. Templates are text/template
// bodies; every value passed to Prepare must already be a serialized term
// from this package.
type Bank struct {
	bank ksparql.Bank
}

// LoadBank parses a query file where each query is introduced by a
// "# tag: <name>" comment line.
func LoadBank(src string) *Bank {
	return &Bank{bank: ksparql.LoadBank(strings.NewReader(src))}
}

// Prepare renders the named template.
func (b *Bank) Prepare(tag string, params any) (string, error) {
	var (
		q   string
		err error
	)
	if params == nil {
		q, err = b.bank.Prepare(tag)
	} else {
		q, err = b.bank.Prepare(tag, params)
	}
	if err != nil {
		return "", fmt.Errorf("failed to prepare query %q: %w", tag, err)
	}
	return q, nil
}

// MustPrepare panics when the template is missing or broken; only for
// parameterless queries checked by tests.
func (b *Bank) MustPrepare(tag string) string {
	q, err := b.Prepare(tag, nil)
	if err != nil {
		panic(err)
	}
	return q
}
