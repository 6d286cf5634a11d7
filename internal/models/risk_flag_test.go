package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlagStatusValid(t *testing.T) {
	assert.True(t, FlagOpen.Valid())
	assert.True(t, FlagInReview.Valid())
	assert.True(t, FlagResolved.Valid())
	assert.False(t, FlagStatus("closed").Valid())
	assert.False(t, FlagStatus("").Valid())
}

func TestFlagStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to FlagStatus
		allowed  bool
	}{
		{FlagOpen, FlagInReview, true},
		{FlagOpen, FlagResolved, true},
		{FlagOpen, FlagOpen, true},
		{FlagInReview, FlagResolved, true},
		{FlagInReview, FlagOpen, true},
		{FlagInReview, FlagInReview, false},
		{FlagResolved, FlagOpen, true},
		{FlagResolved, FlagResolved, true},
		{FlagResolved, FlagInReview, false},
		{FlagOpen, FlagStatus("closed"), false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}
