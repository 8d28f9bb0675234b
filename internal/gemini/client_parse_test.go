package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahu431/snapbill-service/internal/domain"
)

func TestUnmarshalModelJSONDirect(t *testing.T) {
	var parsed domain.ParsedInvoice
	err := unmarshalModelJSON(`{"customerName":"John Doe","items":[{"description":"Consulting","quantity":2,"price":50}]}`, &parsed)
	require.NoError(t, err)

	assert.Equal(t, "John Doe", parsed.CustomerName)
	require.Len(t, parsed.Items, 1)
	assert.Equal(t, 2.0, parsed.Items[0].Quantity)
}

func TestUnmarshalModelJSONFencedBlock(t *testing.T) {
	raw := "Here is the result:\n```json\n{\"customerName\":\"Acme\",\"items\":[]}\n```\n"

	var parsed domain.ParsedInvoice
	err := unmarshalModelJSON(raw, &parsed)
	require.NoError(t, err)
	assert.Equal(t, "Acme", parsed.CustomerName)
}

func TestUnmarshalModelJSONGarbage(t *testing.T) {
	var parsed domain.ParsedInvoice
	err := unmarshalModelJSON("sorry, I could not parse that", &parsed)
	assert.Error(t, err)
}
