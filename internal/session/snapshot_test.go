package session_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ebay-listing-creator/internal/session"
)

func TestSnapshot_Merge(t *testing.T) {
	t.Parallel()

	live := session.Snapshot{
		"title":    json.RawMessage(`"old"`),
		"untouched": json.RawMessage(`42`),
	}
	saved := session.Snapshot{
		"title": json.RawMessage(`"new"`),
		"price": json.RawMessage(`10`),
	}

	live.Merge(saved)

	assert.JSONEq(t, `"new"`, string(live["title"]))
	assert.JSONEq(t, `10`, string(live["price"]))
	assert.JSONEq(t, `42`, string(live["untouched"]))

	// Merged values do not alias the source.
	saved["price"][0] = '9'
	assert.JSONEq(t, `10`, string(live["price"]))
}

func TestSnapshot_Persistable(t *testing.T) {
	t.Parallel()

	s := session.Snapshot{
		"draft":         json.RawMessage(`{}`),
		"_last_listing": json.RawMessage(`{}`),
		"_submit":       json.RawMessage(`true`),
	}

	p := s.Persistable()
	assert.Equal(t, []string{"draft"}, keys(p))
	assert.Len(t, s, 3, "source is not modified")
	assert.True(t, session.IsTransient("_last_listing"))
	assert.False(t, session.IsTransient("last_listing"))
}

func TestSnapshot_GetPut(t *testing.T) {
	t.Parallel()

	s := session.Snapshot{}
	require.NoError(t, s.Put("n", 3))

	var n int
	ok, err := s.Get("n", &n)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	ok, err = s.Get("missing", &n)
	require.NoError(t, err)
	assert.False(t, ok)

	var str string
	_, err = s.Get("n", &str)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding n")
}

func TestSnapshot_CloneNil(t *testing.T) {
	t.Parallel()

	var s session.Snapshot
	c := s.Clone()
	require.NotNil(t, c)
	assert.Empty(t, c)
}

func TestValidateID(t *testing.T) {
	t.Parallel()

	require.NoError(t, session.ValidateID("01HZX3K5W4T9Q8R7M6N5P4S3V2"))
	require.ErrorIs(t, session.ValidateID(""), session.ErrInvalidID)
	require.ErrorIs(t, session.ValidateID("not-a-ulid"), session.ErrInvalidID)
}

func keys(s session.Snapshot) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	return out
}
