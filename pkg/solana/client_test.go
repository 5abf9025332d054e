package solana

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignatureStatus(t *testing.T) {
	zero, one := 0, 1

	testCases := []struct {
		name      string
		s         SignatureStatus
		confirmed bool
		finalized bool
	}{
		{
			name: "no status",
			s: SignatureStatus{
				Slot:          10,
				Confirmations: &zero,
			},
		},
		{
			name: "unknown status",
			s: SignatureStatus{
				Slot:               10,
				Confirmations:      &zero,
				ConfirmationStatus: "random",
			},
		},
		{
			name: "processed",
			s: SignatureStatus{
				Slot:               10,
				Confirmations:      &zero,
				ConfirmationStatus: confirmationStatusProcessed,
			},
		},
		{
			name: "confirmations without status",
			s: SignatureStatus{
				Slot:          10,
				Confirmations: &one,
			},
			confirmed: true,
		},
		{
			name: "confirmed",
			s: SignatureStatus{
				Slot:               10,
				Confirmations:      &zero,
				ConfirmationStatus: confirmationStatusConfirmed,
			},
			confirmed: true,
		},
		{
			name: "finalized",
			s: SignatureStatus{
				Slot:               10,
				Confirmations:      &zero,
				ConfirmationStatus: confirmationStatusFinalized,
			},
			confirmed: true,
			finalized: true,
		},
		{
			name: "rooted",
			s: SignatureStatus{
				Slot:          10,
				Confirmations: nil,
			},
			confirmed: true,
			finalized: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.confirmed, tc.s.Confirmed())
			assert.Equal(t, tc.finalized, tc.s.Finalized())

			if tc.s.Finalized() {
				assert.True(t, tc.s.Confirmed())
			}
		})
	}
}
