package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovementSignedAmount(t *testing.T) {
	credit := Movement{Direction: MovementCredit, AmountCents: 150_00}
	debit := Movement{Direction: MovementDebit, AmountCents: 150_00}

	assert.Equal(t, int64(150_00), credit.SignedAmountCents())
	assert.Equal(t, int64(-150_00), debit.SignedAmountCents())
}

func TestBalanceEqualsSignedSumOfMovements(t *testing.T) {
	movements := []Movement{
		{Direction: MovementDebit, AmountCents: 5_000_000},
		{Direction: MovementCredit, AmountCents: 250_000},
		{Direction: MovementDebit, AmountCents: 40_000},
	}

	var balance int64
	for i := range movements {
		balance += movements[i].SignedAmountCents()
	}
	assert.Equal(t, int64(-4_790_000), balance)
}
