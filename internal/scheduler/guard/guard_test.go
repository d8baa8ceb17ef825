package guard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnsureSettlementDue(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		day  int
		want error
	}{
		{"on the day", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), 5, nil},
		{"after the day", time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), 5, nil},
		{"before the day", time.Date(2024, 3, 4, 23, 59, 0, 0, time.UTC), 5, ErrSettlementNotDue},
		{"day zero", time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), 0, ErrInvalidSettlementDay},
		{"day 29", time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), 29, ErrInvalidSettlementDay},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, EnsureSettlementDue(tc.now, tc.day), tc.want)
		})
	}
}

func TestSettlementPeriodUsesUTC(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	assert.Equal(t, "2024-02", SettlementPeriod(time.Date(2024, 3, 1, 5, 0, 0, 0, jakarta)))
}
