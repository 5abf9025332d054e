package fund

import (
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askibin/solana-program-library/pkg/solana"
)

func TestFundAddressDerivation(t *testing.T) {
	program := testKey(t)

	metadata, metadataBump, err := GetFundMetadataAddress(program, "myfund")
	require.NoError(t, err)

	// Derivation is deterministic.
	again, againBump, err := GetFundMetadataAddress(program, "myfund")
	require.NoError(t, err)
	assert.Equal(t, metadata, again)
	assert.Equal(t, metadataBump, againBump)

	// Different fund names and different derivations map to distinct
	// addresses.
	other, _, err := GetFundMetadataAddress(program, "otherfund")
	require.NoError(t, err)
	assert.NotEqual(t, metadata, other)

	authority, _, err := GetFundAuthorityAddress(program, "myfund")
	require.NoError(t, err)
	assert.NotEqual(t, metadata, authority)
}

func TestCustodyAddressDerivation(t *testing.T) {
	program := testKey(t)
	mint := testKey(t)
	tokenName := CustodyTokenName(mint)

	assert.Equal(t, base58.Encode(mint), tokenName)
	assert.LessOrEqual(t, len(tokenName), MaxNameLength)

	// The two custody types of the same token live at distinct addresses.
	wd, _, err := GetCustodyTokenAccountAddress(program, "myfund", tokenName, CustodyTypeDepositWithdraw)
	require.NoError(t, err)
	trading, _, err := GetCustodyTokenAccountAddress(program, "myfund", tokenName, CustodyTypeTrading)
	require.NoError(t, err)
	assert.NotEqual(t, wd, trading)

	// Metadata, token account and fees account are all distinct.
	metadata, _, err := GetCustodyMetadataAddress(program, "myfund", tokenName, CustodyTypeDepositWithdraw)
	require.NoError(t, err)
	fees, _, err := GetCustodyFeesAccountAddress(program, "myfund", tokenName, CustodyTypeDepositWithdraw)
	require.NoError(t, err)
	assert.NotEqual(t, metadata, wd)
	assert.NotEqual(t, fees, wd)
}

func TestNameSeed(t *testing.T) {
	assert.Equal(t, []byte("myfund"), NameSeed("myfund"))

	// Base58 mint names run past the seed limit and get clipped.
	mint, err := base58.Decode("9n4nbM75f5Ui33ZbPYXn59EwSgE8CGsHtAeTH5YFeJ9E")
	require.NoError(t, err)
	tokenName := CustodyTokenName(mint)
	require.Len(t, tokenName, 44)

	seed := NameSeed(tokenName)
	assert.Len(t, seed, solana.MaxSeedLength)
	assert.Equal(t, []byte(tokenName[:solana.MaxSeedLength]), seed)

	// Clipped names still derive; the full name would be rejected as a seed.
	program := testKey(t)
	metadata, _, err := GetCustodyMetadataAddress(program, "myfund", tokenName, CustodyTypeDepositWithdraw)
	require.NoError(t, err)
	assert.Len(t, metadata, 32)

	_, err = solana.CreateProgramAddress(program, []byte(tokenName))
	assert.Equal(t, solana.ErrMaxSeedLengthExceeded, err)
}

func TestUserInfoAddressDerivation(t *testing.T) {
	program := testKey(t)
	tokenName := CustodyTokenName(testKey(t))

	alice, _, err := GetUserInfoAddress(program, "myfund", tokenName, testKey(t))
	require.NoError(t, err)
	bob, _, err := GetUserInfoAddress(program, "myfund", tokenName, testKey(t))
	require.NoError(t, err)
	assert.NotEqual(t, alice, bob)
}
