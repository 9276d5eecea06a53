package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  \n```json{\"a\":1}```  ", `{"a":1}`},
		{"", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, stripCodeFences(tc.in), "in=%q", tc.in)
	}
}

func TestParseAnalysis(t *testing.T) {
	out, err := parseAnalysis("```json\n{\"userResponse\":\"Hi\",\"summary\":\"S\",\"actions\":[\"x\"]}\n```")
	require.NoError(t, err)
	require.Equal(t, "Hi", out.UserResponse)
	require.Equal(t, []string{"x"}, out.Actions)

	_, err = parseAnalysis("   ")
	require.Error(t, err)

	_, err = parseAnalysis("[1,2,3]")
	require.Error(t, err)
}

func TestParseAnalysis_RejectsEmptyShape(t *testing.T) {
	for _, raw := range []string{`null`, `{}`, `{"foo":"bar"}`, `{"actions":["a","b","c"]}`} {
		_, err := parseAnalysis(raw)
		require.Error(t, err, "raw=%q", raw)
	}

	out, err := parseAnalysis(`{"summary":"Only a summary."}`)
	require.NoError(t, err)
	require.Equal(t, "Only a summary.", out.Summary)
}
