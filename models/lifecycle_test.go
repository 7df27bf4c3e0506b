package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStageNext(t *testing.T) {
	stages := []Stage{StageUnsubmitted, StageSubmitted, StageComputed, StageGranted, StageRevoked}

	allowed := map[Stage]map[Action]Stage{
		StageUnsubmitted: {ActionSubmit: StageSubmitted, ActionRevoke: StageUnsubmitted},
		StageSubmitted:   {ActionCompute: StageComputed, ActionRevoke: StageSubmitted},
		StageComputed:    {ActionGrant: StageGranted, ActionRevoke: StageComputed},
		StageGranted:     {ActionGrant: StageGranted, ActionRevoke: StageRevoked},
		StageRevoked:     {ActionGrant: StageGranted, ActionRevoke: StageRevoked},
	}

	for _, from := range stages {
		for _, action := range []Action{ActionSubmit, ActionCompute, ActionGrant, ActionRevoke} {
			next, ok := from.Next(action)
			want, legal := allowed[from][action]
			assert.Equal(t, legal, ok, "%s -%s->", from, action)
			if legal {
				assert.Equal(t, want, next, "%s -%s->", from, action)
			} else {
				assert.Equal(t, from, next, "%s -%s-> must not move", from, action)
			}
		}
	}
}

func TestStagePredicates(t *testing.T) {
	tests := []struct {
		stage     Stage
		submitted bool
		computed  bool
		permitted bool
	}{
		{StageUnsubmitted, false, false, false},
		{StageSubmitted, true, false, false},
		{StageComputed, true, true, false},
		{StageGranted, true, true, true},
		{StageRevoked, true, true, false},
		{Stage(""), false, false, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.submitted, tt.stage.Submitted(), string(tt.stage))
		assert.Equal(t, tt.computed, tt.stage.Computed(), string(tt.stage))
		assert.Equal(t, tt.permitted, tt.stage.Permitted(), string(tt.stage))
	}
}

func TestLifecycleApply(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewLifecycle("alice", "acme")

	assert.False(t, l.Apply(ActionCompute, at, "tx0"))
	assert.Equal(t, StageUnsubmitted, l.Stage)
	assert.Empty(t, l.LastTxID)

	assert.True(t, l.Apply(ActionSubmit, at, "tx1"))
	assert.Equal(t, StageSubmitted, l.Stage)
	assert.Equal(t, at, *l.SubmittedAt)
	assert.Equal(t, "tx1", l.LastTxID)

	assert.False(t, l.Apply(ActionSubmit, at.Add(time.Hour), "tx2"))
	assert.Equal(t, at, *l.SubmittedAt)

	assert.True(t, l.Apply(ActionCompute, at.Add(time.Hour), "tx3"))
	assert.Equal(t, at.Add(time.Hour), *l.ComputedAt)
	assert.Nil(t, l.PermissionUpdatedAt)

	assert.True(t, l.Apply(ActionGrant, at.Add(2*time.Hour), "tx4"))
	assert.True(t, l.Stage.Permitted())
	assert.Equal(t, at.Add(2*time.Hour), *l.PermissionUpdatedAt)

	assert.True(t, l.Apply(ActionRevoke, at.Add(3*time.Hour), "tx5"))
	assert.Equal(t, StageRevoked, l.Stage)
	assert.False(t, l.Apply(ActionCompute, at.Add(4*time.Hour), "tx6"))
}
