package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-admin-console/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID    string `json:"id" yaml:"id"`
	Total int    `json:"total" yaml:"total"`
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPrinter(&buf, FormatYAML)
	require.NoError(t, err)
	require.NoError(t, p.Print(row{ID: "ord_1", Total: 3}))
	assert.Equal(t, "id: ord_1\ntotal: 3\n", buf.String())

	buf.Reset()
	p, err = NewPrinter(&buf, FormatJSON)
	require.NoError(t, err)
	require.NoError(t, p.Print(row{ID: "ord_1", Total: 3}))
	assert.JSONEq(t, `{"id":"ord_1","total":3}`, buf.String())

	_, err = NewPrinter(&buf, "xml")
	assert.True(t, apperr.Is(err, apperr.Invalid))
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	Error(&buf, apperr.ForbiddenErr("Only admins can access the admin console"))
	assert.Contains(t, buf.String(), "Only admins can access the admin console")
	assert.Contains(t, buf.String(), "admin login")

	buf.Reset()
	Error(&buf, errors.New("socket closed"))
	assert.Equal(t, "Error: Something went wrong, please try again\n", buf.String())
}
