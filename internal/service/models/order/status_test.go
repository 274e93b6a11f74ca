package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"Placed", "In Progress", "Out for Delivery", "Delivered"} {
		status, err := ParseStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, status.String())
	}

	for _, raw := range []string{"", "placed", "Cancelled", "IN PROGRESS", "Done"} {
		_, err := ParseStatus(raw)
		assert.ErrorIs(t, err, ErrUnknownStatus, "raw=%q", raw)
	}
}

func TestStatusTransitions(t *testing.T) {
	t.Parallel()

	all := []Status{StatusPlaced, StatusInProgress, StatusOutForDelivery, StatusDelivered}

	allowed := map[Status]Status{
		StatusPlaced:         StatusInProgress,
		StatusInProgress:     StatusOutForDelivery,
		StatusOutForDelivery: StatusDelivered,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from] == to
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)

			err := from.ValidateTransition(to)
			if want {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", from, to)
			}
		}
	}
}

func TestStatusValue(t *testing.T) {
	t.Parallel()

	v, err := StatusOutForDelivery.Value()
	require.NoError(t, err)
	assert.Equal(t, "Out for Delivery", v)
}
