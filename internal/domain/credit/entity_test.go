//go:build unit

package credit_test

import (
	"testing"
	"time"

	"studio-booking/internal/domain/credit"
	"studio-booking/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCredit(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		c, err := builder.NewCreditBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, c)

		assert.Equal(t, credit.StatusActive, c.Status())
		assert.Equal(t, 8, c.ClassesRemaining())
		assert.True(t, c.HasRemaining())
	})

	t.Run("validation failures", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*builder.CreditBuilder)
			errIs  error
		}{
			{
				name:   "invalid group",
				mutate: func(b *builder.CreditBuilder) { b.Group = "YOGA" },
				errIs:  credit.ErrInvalidGroup,
			},
			{
				name:   "zero class count",
				mutate: func(b *builder.CreditBuilder) { b.ClassesRemaining = 0 },
				errIs:  credit.ErrInvalidClassCount,
			},
			{
				name: "fixed kind without expiry",
				mutate: func(b *builder.CreditBuilder) {
					b.Kind = credit.KindFixed
					b.ExpiresAt = nil
				},
				errIs: credit.ErrMissingExpiry,
			},
			{
				name: "monthly kind without reset date",
				mutate: func(b *builder.CreditBuilder) {
					b.Kind = credit.KindMonthly
					b.NextResetAt = nil
				},
				errIs: credit.ErrMissingResetDate,
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				b := builder.NewCreditBuilder()
				tc.mutate(b)
				_, err := b.BuildDomain()
				assert.ErrorIs(t, err, tc.errIs)
			})
		}
	})
}

func TestCoversDate(t *testing.T) {
	t.Run("fixed credit covers up to and including expiry", func(t *testing.T) {
		expiry := time.Date(2026, 10, 20, 23, 59, 59, 0, time.UTC)
		c := builder.NewCreditBuilder().AsFixed(expiry).BuildReconstructed()

		assert.True(t, c.CoversDate(expiry.Add(-30*24*time.Hour)))
		assert.True(t, c.CoversDate(expiry))
		assert.False(t, c.CoversDate(expiry.Add(time.Second)))
	})

	t.Run("monthly credit covers only the calendar month of the reset anchor", func(t *testing.T) {
		reset := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
		c := builder.NewCreditBuilder().AsMonthly(reset).BuildReconstructed()

		assert.True(t, c.CoversDate(time.Date(2026, 10, 1, 6, 0, 0, 0, time.UTC)))
		assert.True(t, c.CoversDate(time.Date(2026, 10, 31, 23, 0, 0, 0, time.UTC)))
		assert.False(t, c.CoversDate(time.Date(2026, 9, 30, 23, 0, 0, 0, time.UTC)))
		assert.False(t, c.CoversDate(time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)))
		// same month in a different year does not count
		assert.False(t, c.CoversDate(time.Date(2027, 10, 15, 9, 0, 0, 0, time.UTC)))
	})
}

func TestEligibleFor(t *testing.T) {
	date := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	reset := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	base := func() *builder.CreditBuilder {
		return builder.NewCreditBuilder().
			WithGroup(credit.GroupReformer).
			AsMonthly(reset)
	}

	t.Run("eligible", func(t *testing.T) {
		c := base().BuildReconstructed()
		assert.NoError(t, c.EligibleFor(credit.GroupReformer, false, date))
	})

	t.Run("wrong group", func(t *testing.T) {
		c := base().BuildReconstructed()
		assert.ErrorIs(t, c.EligibleFor(credit.GroupMatFunctional, false, date), credit.ErrInvalidGroup)
	})

	t.Run("personal mismatch", func(t *testing.T) {
		c := base().BuildReconstructed()
		assert.ErrorIs(t, c.EligibleFor(credit.GroupReformer, true, date), credit.ErrInvalidGroup)
	})

	t.Run("suspended credit", func(t *testing.T) {
		c := base().WithStatus(credit.StatusSuspended).BuildReconstructed()
		assert.ErrorIs(t, c.EligibleFor(credit.GroupReformer, false, date), credit.ErrNotActive)
	})

	t.Run("no classes remaining", func(t *testing.T) {
		c := base().WithRemaining(0).BuildReconstructed()
		assert.ErrorIs(t, c.EligibleFor(credit.GroupReformer, false, date), credit.ErrNoRemaining)
	})

	t.Run("wrong month", func(t *testing.T) {
		c := base().BuildReconstructed()
		next := time.Date(2026, 11, 15, 9, 0, 0, 0, time.UTC)
		assert.ErrorIs(t, c.EligibleFor(credit.GroupReformer, false, next), credit.ErrOutsideWindow)
	})
}
