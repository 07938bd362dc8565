package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLocationFindsCityAfterW(t *testing.T) {
	assert.Equal(t, "Warszawie", ExtractLocation("jaka jest pogoda w Warszawie?"))
	assert.Equal(t, "Krakowie", ExtractLocation("szukam hotelu w Krakowie"))
}

func TestExtractLocationNoMatchReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", ExtractLocation("cześć, co słychać?"))
}
