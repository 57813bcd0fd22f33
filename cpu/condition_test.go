package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type flags struct {
	n, z, c, v bool
}

func TestConditionHolds(t *testing.T) {
	tests := []struct {
		cond Condition
		f    flags
		want bool
	}{
		{CondEQ, flags{z: true}, true},
		{CondEQ, flags{}, false},
		{CondNE, flags{}, true},
		{CondNE, flags{z: true}, false},
		{CondCS, flags{c: true}, true},
		{CondCC, flags{c: true}, false},
		{CondMI, flags{n: true}, true},
		{CondPL, flags{n: true}, false},
		{CondVS, flags{v: true}, true},
		{CondVC, flags{}, true},
		{CondHI, flags{c: true}, true},
		{CondHI, flags{c: true, z: true}, false},
		{CondLS, flags{z: true}, true},
		{CondLS, flags{c: true}, false},
		{CondGE, flags{n: true, v: true}, true},
		{CondGE, flags{n: true}, false},
		{CondLT, flags{v: true}, true},
		{CondLT, flags{}, false},
		{CondGT, flags{}, true},
		{CondGT, flags{z: true}, false},
		{CondGT, flags{n: true}, false},
		{CondLE, flags{z: true}, true},
		{CondLE, flags{n: true, v: true}, false},
		{CondAL, flags{n: true, z: true, c: true, v: true}, true},
		{CondAL, flags{}, true},
		{CondNV, flags{n: true, z: true, c: true, v: true}, false},
	}
	for _, tc := range tests {
		got := tc.cond.Holds(tc.f.n, tc.f.z, tc.f.c, tc.f.v)
		assert.Equal(t, tc.want, got, "%v with %+v", conditionStrings[tc.cond], tc.f)
	}
}

func TestConditionString(t *testing.T) {
	assert.Equal(t, "", CondAL.String())
	assert.Equal(t, "eq", CondEQ.String())
	assert.Equal(t, "ls", CondLS.String())
}
