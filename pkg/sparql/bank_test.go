package sparql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBank = `
# tag: all-events
PREFIX eco: <http://www.semanticweb.org/eco-ontology#>
SELECT ?event WHERE { ?event a eco:Event . }

# tag: event-by-id
PREFIX eco: <http://www.semanticweb.org/eco-ontology#>
SELECT ?title WHERE { {{.Event}} eco:eventTitle ?title . }
`

func TestBankPrepare(t *testing.T) {
	b := LoadBank(testBank)

	q, err := b.Prepare("all-events", nil)
	require.NoError(t, err)
	assert.Contains(t, q, "?event a eco:Event")
	assert.NoError(t, Check(q))

	q, err = b.Prepare("event-by-id", struct{ Event string }{MustIRI(EcoNS + "Event1")})
	require.NoError(t, err)
	assert.Contains(t, q, "<http://www.semanticweb.org/eco-ontology#Event1> eco:eventTitle ?title")
	assert.NoError(t, Check(q))
}

func TestBankUnknownTag(t *testing.T) {
	b := LoadBank(testBank)
	_, err := b.Prepare("missing", nil)
	assert.Error(t, err)
	assert.Panics(t, func() { b.MustPrepare("missing") })
}
