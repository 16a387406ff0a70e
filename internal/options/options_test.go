package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type target struct {
	name  string
	count int
}

func TestApply(t *testing.T) {
	require := require.New(t)

	tgt := &target{}
	opts := []Option[*target]{
		NoError(func(tt *target) { tt.name = "session" }),
		New(func(tt *target) error { tt.count = 3; return nil }),
	}

	require.NoError(Apply(tgt, opts...))
	require.Equal("session", tgt.name)
	require.Equal(3, tgt.count)
}

func TestApplyStopsOnError(t *testing.T) {
	require := require.New(t)

	tgt := &target{}
	boom := errors.New("boom")
	opts := []Option[*target]{
		NoError(func(tt *target) { tt.count = 1 }),
		New(func(tt *target) error { return boom }),
		NoError(func(tt *target) { tt.count = 2 }),
	}

	err := Apply(tgt, opts...)
	require.ErrorIs(err, boom)
	require.Equal(1, tgt.count)
}
