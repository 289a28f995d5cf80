package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/domain/inventory"
)

func TestParseQuantity(t *testing.T) {
	q, err := inventory.ParseQuantity(" 15.25 ")
	require.NoError(t, err)
	assert.Equal(t, "15.25", q.String())

	q, err = inventory.ParseQuantity("1,5")
	require.NoError(t, err)
	assert.Equal(t, "1.5", q.String())

	q, err = inventory.ParseQuantity("0.123456")
	require.NoError(t, err)
	assert.Equal(t, "0.1235", q.String(), "se redondea a 4 decimales")

	for _, bad := range []string{"", "abc", "1e3", "1,000.5.2"} {
		_, err := inventory.ParseQuantity(bad)
		assert.Error(t, err, bad)
	}
}
