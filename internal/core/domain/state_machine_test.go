package domain_test

import (
	"testing"

	"github.com/SscSPs/salesops_app/internal/apperrors"
	"github.com/SscSPs/salesops_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestStateMachine_Validate(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"draft to sent", domain.ProposalStatusMachine.Validate(domain.ProposalDraft, domain.ProposalSent), nil},
		{"draft to accepted", domain.ProposalStatusMachine.Validate(domain.ProposalDraft, domain.ProposalAccepted), apperrors.ErrInvalidTransition},
		{"accepted is terminal", domain.ProposalStatusMachine.Validate(domain.ProposalAccepted, domain.ProposalSent), apperrors.ErrInvalidTransition},
		{"unknown target", domain.ProposalStatusMachine.Validate(domain.ProposalDraft, "archived"), apperrors.ErrValidation},
		{"won deal is terminal", domain.DealStageMachine.Validate(domain.DealWon, domain.DealLead), apperrors.ErrInvalidTransition},
		{"open deal jumps stages", domain.DealStageMachine.Validate(domain.DealLead, domain.DealNegotiation), nil},
		{"payment goes backwards", domain.PaymentStatusMachine.Validate(domain.PaymentInvoiced, domain.PaymentDepositRequested), apperrors.ErrInvalidTransition},
		{"payment skips forward", domain.PaymentStatusMachine.Validate(domain.PaymentUnplanned, domain.PaymentPaid), nil},
		{"locked time entry", domain.TimeEntryStatusMachine.Validate(domain.TimeEntryLocked, domain.TimeEntryDraft), apperrors.ErrInvalidTransition},
		{"submitted sent back", domain.TimeEntryStatusMachine.Validate(domain.TimeEntrySubmitted, domain.TimeEntryDraft), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr == nil {
				assert.NoError(t, tt.err)
				return
			}
			assert.ErrorIs(t, tt.err, tt.wantErr)
		})
	}
}

func TestStateMachine_IsTerminal(t *testing.T) {
	assert.True(t, domain.WorkOrderStatusMachine.IsTerminal(domain.WorkOrderCompleted))
	assert.False(t, domain.WorkOrderStatusMachine.IsTerminal(domain.WorkOrderOnHold))
	assert.False(t, domain.TaskStatusMachine.IsTerminal(domain.TaskDone))
}

func TestWeekKey(t *testing.T) {
	assert.Equal(t, "2026-W01", domain.WeekKey(mustDate("2025-12-29")))
	assert.Equal(t, "2026-W42", domain.WeekKey(mustDate("2026-10-16")))
}
