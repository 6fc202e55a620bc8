package main

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/shorthand"
)

func TestGenerateRoundTrips(t *testing.T) {
	var sb strings.Builder
	st, err := generate(&sb, 64*1024, rand.New(rand.NewSource(7)))
	assert.NoError(t, err)

	assert.True(t, st.bytes >= 64*1024)
	assert.Equal(t, uint64(sb.Len()), st.bytes)
	assert.True(t, st.entities > 0)
	assert.True(t, st.rules > 0)

	assert.NoError(t, shorthand.Check(context.Background(), "large.fsh", []byte(sb.String())))
}

func TestGenerateIsDeterministic(t *testing.T) {
	var a, b strings.Builder
	_, err := generate(&a, 8*1024, rand.New(rand.NewSource(3)))
	assert.NoError(t, err)
	_, err = generate(&b, 8*1024, rand.New(rand.NewSource(3)))
	assert.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
}
