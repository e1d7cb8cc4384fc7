package prof

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsAllNegInf(t *testing.T) {
	p := New("test", 3, true)
	require.NoError(t, p.Validate())
	assert.True(t, math.IsInf(p.MatchScore(1, 0), -1))
	assert.True(t, math.IsInf(p.T(1, TMM), -1))
	assert.True(t, math.IsInf(p.SpecialTrans[SB][Move], -1))
}

func TestValidateRejectsBadLength(t *testing.T) {
	p := New("test", 0, true)
	assert.Error(t, p.Validate())
}

func TestTraceEndpoints(t *testing.T) {
	tr := Trace{
		{State: StateM, I: 1, J: 1},
		{State: StateI, I: 1, J: 2},
		{State: StateM, I: 2, J: 3},
		{State: StateM, I: 3, J: 4},
	}
	beg, end, err := tr.Endpoints()
	require.NoError(t, err)
	assert.Equal(t, Cell{State: StateM, I: 1, J: 1}, beg)
	assert.Equal(t, Cell{State: StateM, I: 3, J: 4}, end)
}

func TestTraceEndpointsNoMatch(t *testing.T) {
	tr := Trace{{State: StateI, I: 1, J: 1}}
	_, _, err := tr.Endpoints()
	assert.Error(t, err)
}
