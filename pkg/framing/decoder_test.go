package framing_test

import (
	"math/rand/v2"
	"testing"

	"github.com/shokoauto/notifybridge/pkg/framing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stream = "{\"title\":\"Added\",\"fields\":[{\"name\":\"Series\",\"value\":\"Foo\"}]}\n" +
	"\n" +
	"   \r\n" +
	"{\"title\":\"Second\"}\r\n" +
	"not json at all\n" +
	"{\"title\":\"Ünïcödé ✓\"}\n" +
	"{\"title\":\"tail without newline\"}"

func feedAll(t *testing.T, d *framing.Decoder, chunks ...[]byte) []string {
	t.Helper()
	var out []string
	for _, c := range chunks {
		frames, err := d.Feed(c)
		require.NoError(t, err)
		for _, f := range frames {
			out = append(out, string(f))
		}
	}
	return out
}

func TestDecoderSingleFeed(t *testing.T) {
	t.Parallel()

	d := framing.NewDecoder()
	got := feedAll(t, d, []byte(stream))

	assert.Equal(t, []string{
		`{"title":"Added","fields":[{"name":"Series","value":"Foo"}]}`,
		`{"title":"Second"}`,
		`not json at all`,
		`{"title":"Ünïcödé ✓"}`,
	}, got)
	assert.Equal(t, len(`{"title":"tail without newline"}`), d.Buffered())
}

func TestDecoderSplitInvariance(t *testing.T) {
	t.Parallel()

	want := feedAll(t, framing.NewDecoder(), []byte(stream))
	data := []byte(stream)

	// every single split point
	for i := 0; i <= len(data); i++ {
		d := framing.NewDecoder()
		got := feedAll(t, d, data[:i], data[i:])
		require.Equal(t, want, got, "split at %d", i)
	}

	// byte by byte
	d := framing.NewDecoder()
	chunks := make([][]byte, len(data))
	for i := range data {
		chunks[i] = data[i : i+1]
	}
	assert.Equal(t, want, feedAll(t, d, chunks...))

	// random multi-way splits
	rng := rand.New(rand.NewPCG(1, 2))
	for range 200 {
		var parts [][]byte
		rest := data
		for len(rest) > 0 {
			n := rng.IntN(len(rest)) + 1
			if n > 7 {
				n = rng.IntN(7) + 1
			}
			parts = append(parts, rest[:n])
			rest = rest[n:]
		}
		assert.Equal(t, want, feedAll(t, framing.NewDecoder(), parts...))
	}
}

func TestDecoderReturnsCopies(t *testing.T) {
	t.Parallel()

	d := framing.NewDecoder()
	first, err := d.Feed([]byte("aaaa\nbb"))
	require.NoError(t, err)
	require.Len(t, first, 1)

	_, err = d.Feed([]byte("bb\ncccc\n"))
	require.NoError(t, err)
	assert.Equal(t, "aaaa", string(first[0]))
}

func TestDecoderEmptyFeed(t *testing.T) {
	t.Parallel()

	d := framing.NewDecoder()
	frames, err := d.Feed(nil)
	require.NoError(t, err)
	assert.Empty(t, frames)

	frames, err = d.Feed([]byte("\n\n \n"))
	require.NoError(t, err)
	assert.Empty(t, frames)
	assert.Equal(t, 0, d.Buffered())
}

func TestDecoderMaxBuffered(t *testing.T) {
	t.Parallel()

	d := framing.NewDecoder(framing.WithMaxBuffered(16))

	frames, err := d.Feed([]byte("short\n0123456789"))
	require.NoError(t, err)
	assert.Equal(t, []string{"short"}, toStrings(frames))

	frames, err = d.Feed([]byte("0123456789"))
	require.ErrorIs(t, err, framing.ErrFrameTooLarge)
	assert.Empty(t, frames)
	assert.Equal(t, 0, d.Buffered())

	// a complete frame longer than the cap is fine, only the tail is bounded
	d = framing.NewDecoder(framing.WithMaxBuffered(4))
	frames, err = d.Feed([]byte("a much longer line\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a much longer line"}, toStrings(frames))
}

func TestDecoderFlush(t *testing.T) {
	t.Parallel()

	d := framing.NewDecoder()
	_, err := d.Feed([]byte("done\npartial "))
	require.NoError(t, err)

	assert.Equal(t, "partial", string(d.Flush()))
	assert.Equal(t, 0, d.Buffered())
	assert.Nil(t, d.Flush())
}

func toStrings(frames [][]byte) []string {
	out := make([]string, 0, len(frames))
	for _, f := range frames {
		out = append(out, string(f))
	}
	return out
}
