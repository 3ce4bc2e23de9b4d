package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type config struct {
	Algorithm string   `json:"algorithm"`
	Width     int      `json:"width"`
	Rate      float64  `json:"learning_rate,omitempty"`
	Headings  []string `json:"headings"`
}

func TestCodecsAgree(t *testing.T) {
	in := config{Algorithm: "perfect-memory", Width: 36, Headings: []string{"0", "90"}}

	std := MustMarshal(JSON{}, in)
	fast := MustMarshal(GoJSON{}, in)
	assert.JSONEq(t, string(std), string(fast))

	var out config
	require.NoError(t, GoJSON{}.Unmarshal(std, &out))
	assert.Equal(t, in, out)
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
	assert.Equal(t, "go-json", Default.Name())
}

func TestMustMarshalPanics(t *testing.T) {
	assert.Panics(t, func() { MustMarshal(nil, make(chan int)) })
}

func TestMarshalIndent(t *testing.T) {
	b, err := GoJSON{}.MarshalIndent(map[string]int{"a": 1}, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", string(b))
}
