package fund

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askibin/solana-program-library/pkg/solana"
	compute_budget "github.com/askibin/solana-program-library/pkg/solana/computebudget"
	"github.com/askibin/solana-program-library/pkg/solana/memo"
)

func TestNewFundTransaction(t *testing.T) {
	program := testKey(t)
	payer := testKey(t)

	ixn := NewStartLiquidationInstruction(program, &LiquidationInstructionAccounts{
		Admin:            payer,
		FundMetadata:     testKey(t),
		FundInfo:         testKey(t),
		LiquidationState: testKey(t),
	})

	txn := NewFundTransaction(payer, &TransactionOptions{
		ComputeUnitLimit: 150_000,
		ComputeUnitPrice: 2_000,
		Memo:             "liquidate",
	}, ixn)

	require.Len(t, txn.Message.Instructions, 4)

	price, err := compute_budget.ParseSetComputeUnitPriceIxnData(txn.Message.Instructions[0].Data)
	require.NoError(t, err)
	assert.EqualValues(t, 2_000, price)

	limit, err := compute_budget.ParseSetComputeUnitLimitIxnData(txn.Message.Instructions[1].Data)
	require.NoError(t, err)
	assert.EqualValues(t, 150_000, limit)

	decompiled, err := memo.DecompileMemo(txn.Message, 3)
	require.NoError(t, err)
	assert.Equal(t, "liquidate", string(decompiled.Data))
}

func TestNewFundTransactionDefaults(t *testing.T) {
	program := testKey(t)
	payer := testKey(t)

	ixn := NewUserInitInstruction(program, &UserInitInstructionAccounts{
		User:            payer,
		FundMetadata:    testKey(t),
		FundInfo:        testKey(t),
		UserInfo:        testKey(t),
		CustodyMetadata: testKey(t),
	})

	// No options: compute budget defaults apply and no memo is appended.
	txn := NewFundTransaction(payer, nil, ixn)
	require.Len(t, txn.Message.Instructions, 3)

	limit, err := compute_budget.ParseSetComputeUnitLimitIxnData(txn.Message.Instructions[1].Data)
	require.NoError(t, err)
	assert.EqualValues(t, defaultComputeUnitLimit, limit)
}

func TestDescribeError(t *testing.T) {
	assert.Empty(t, DescribeError(nil))

	err := errors.Wrap(ErrorOracleStale, "transaction failed")
	assert.Equal(t, "oracle price is stale", DescribeError(err))

	plain := errors.New("connection refused")
	assert.Equal(t, "connection refused", DescribeError(plain))

	// Custom errors from other programs have no fund description.
	assert.Empty(t, DescribeError(solana.CustomError(7)))
}
