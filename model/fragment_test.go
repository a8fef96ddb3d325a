package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestNormalizeToken(t *testing.T) {
	require.Equal(t, "12", NormalizeToken(" 12. "))
	require.Equal(t, "3a", NormalizeToken("3a"))
	require.Equal(t, "", NormalizeToken("  "))
}

func TestValidToken(t *testing.T) {
	for _, tok := range []string{"1", "12", "3a", "4-5"} {
		require.True(t, ValidToken(tok), tok)
	}
	for _, tok := range []string{"", "a", "1.", "x3", "1-", "12ab"} {
		require.False(t, ValidToken(tok), tok)
	}
}

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"10": 0, "2": 0, "1": 0, "2a": 0, "1-3": 0, "b": 0}
	got := SortedKeys(m)
	want := []string{"1", "1-3", "2", "2a", "10", "b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SortedKeys mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorsUnwrapToSentinels(t *testing.T) {
	cause := errors.New("connection reset")
	var err error = &TransientFetchError{URL: "http://x", Err: cause}
	require.ErrorIs(t, err, ErrTransientFetch)
	require.ErrorIs(t, err, cause)

	err = &CorruptDocumentError{Path: "bible.json", Err: cause}
	require.ErrorIs(t, err, ErrCorruptDocument)

	err = &ConflictingRemapError{Book: "Ps", Target: "116", Sources: []string{"114", "115"}}
	require.ErrorIs(t, err, ErrConflictingRemap)
	require.Contains(t, err.Error(), "114, 115")

	require.ErrorIs(t, &MissingTitleError{Book: "Gen"}, ErrMissingTitle)
	require.ErrorIs(t, &MalformedFragmentError{Order: 1}, ErrMalformedFragment)

	var tf *TransientFetchError
	require.ErrorAs(t, error(&TransientFetchError{URL: "u", Status: 503}), &tf)
	require.Equal(t, 503, tf.Status)
}
