package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to PayrollRunStatus
		allowed  bool
	}{
		{RunDraft, RunPendingApproval, true},
		{RunDraft, RunCancelled, true},
		{RunDraft, RunApproved, false},
		{RunPendingApproval, RunApproved, true},
		{RunPendingApproval, RunDraft, true},
		{RunPendingApproval, RunCancelled, true},
		{RunApproved, RunPaid, true},
		{RunApproved, RunCancelled, false},
		{RunPaid, RunCancelled, false},
		{RunPaid, RunDraft, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}
