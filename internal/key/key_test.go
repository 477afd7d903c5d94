package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare", "bare_key", "bare_key"},
		{"bare with dashes", "dashed-key", "dashed-key"},
		{"padded", "  spaced  ", "spaced"},
		{"redundantly quoted bare", `"bare"`, "bare"},
		{"quoted with dot stays quoted", `"a.b"`, `"a.b"`},
		{"single quoted stays quoted", `'a b'`, `'a b'`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Canonicalize(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCanonicalizeInvalid(t *testing.T) {
	_, err := Canonicalize("has space")
	require.Error(t, err)
}

func TestCanonicalizeIdempotent(t *testing.T) {
	// P3: canonicalize(canonicalize(k)) = canonicalize(k)
	inputs := []string{"bare", `"bare"`, `"a.b"`, "  trimmed  "}
	for _, in := range inputs {
		once, err := Canonicalize(in)
		require.NoError(t, err)
		twice, err := Canonicalize(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestSplitDotted(t *testing.T) {
	// P4
	got, err := SplitDotted("a.b.c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)

	got, err = SplitDotted(`a."b.c".d`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", `"b.c"`, "d"}, got)
}

func TestSplitDottedSingle(t *testing.T) {
	got, err := SplitDotted("key")
	require.NoError(t, err)
	assert.Equal(t, []string{"key"}, got)
}

func TestSplitDottedUnterminatedQuote(t *testing.T) {
	_, err := SplitDotted(`a."b`)
	require.Error(t, err)
}
