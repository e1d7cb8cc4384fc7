package m8_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/grailbio/fbpruner/m8"
	"github.com/grailbio/fbpruner/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHit() m8.Hit {
	return m8.Hit{
		Query:       "q1",
		Target:      "t1",
		QueryID:     1,
		TargetID:    2,
		QueryStart:  1,
		QueryEnd:    50,
		TargetStart: 5,
		TargetEnd:   55,
		ForwardNats: 40,
		NullNats:    -10,
		DBSize:      1000,
		Tail:        score.ExpTail{Mu: 10, Lambda: 0.3},
	}
}

func TestWriterProducesTwelveColumns(t *testing.T) {
	var buf bytes.Buffer
	w := m8.NewWriter(&buf)
	require.NoError(t, w.Write(sampleHit()))
	require.NoError(t, w.Flush())

	line := strings.TrimRight(buf.String(), "\n")
	fields := strings.Split(line, "\t")
	assert.Len(t, fields, 12)
	assert.Equal(t, "q1", fields[0])
	assert.Equal(t, "t1", fields[1])
	assert.Equal(t, "1", fields[6])
}

func TestWriterPlusProducesFifteenColumns(t *testing.T) {
	var buf bytes.Buffer
	w := m8.NewWriterPlus(&buf)
	require.NoError(t, w.Write(sampleHit()))
	require.NoError(t, w.Flush())

	line := strings.TrimRight(buf.String(), "\n")
	fields := strings.Split(line, "\t")
	assert.Len(t, fields, 15)
	assert.Equal(t, "1", fields[12])
	assert.Equal(t, "2", fields[13])
}

func TestWriterStickyErrorAfterFailure(t *testing.T) {
	w := m8.NewWriter(failingWriter{})
	require.NoError(t, w.Write(sampleHit())) // buffered; underlying Write not yet invoked
	err := w.Flush()
	assert.Error(t, err)
	assert.Equal(t, err, w.Write(sampleHit()))
	assert.Equal(t, err, w.Flush())
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("boom")
}
