package statement

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesPDF(t *testing.T) {
	from, to := chargedomain.MonthRange(2024, 2)
	stmt := &chargedomain.Statement{
		OwnerID:     42,
		Year:        2024,
		Month:       2,
		PeriodStart: from,
		PeriodEnd:   to,
		Charges: []chargedomain.ChargeView{{
			Charge: chargedomain.Charge{
				ID:          1,
				OwnerID:     42,
				ChargeType:  chargedomain.ChargeTypePurchase,
				Amount:      decimal.RequireFromString("8.00"),
				Status:      chargedomain.ChargeStatusPending,
				Description: "Purchase of track 7: 80% of 10.00",
				CreatedAt:   time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC),
			},
			ContentTitle: "Blue Monday",
		}},
		TotalAmount:   decimal.RequireFromString("8.00"),
		PendingAmount: decimal.RequireFromString("8.00"),
		PaidAmount:    decimal.Zero,
		GeneratedAt:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	reader, err := New().Render(context.Background(), stmt)
	require.NoError(t, err)
	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(body[:4]))
}

func TestRenderEmptyStatement(t *testing.T) {
	reader, err := New().Render(context.Background(), &chargedomain.Statement{OwnerID: 1, Year: 2024, Month: 1})
	require.NoError(t, err)
	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.NotEmpty(t, body)
}

func TestRenderRejectsNil(t *testing.T) {
	_, err := New().Render(context.Background(), nil)
	assert.Error(t, err)
}
