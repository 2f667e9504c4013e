package htmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestGetText(t *testing.T) {
	node, err := html.Parse(strings.NewReader(`<div>Stephen <b>Curry</b></div>`))
	require.NoError(t, err)
	require.Equal(t, "Stephen Curry", GetText(node))
	require.Equal(t, "", GetText(nil))
}

func TestScriptText(t *testing.T) {
	testCases := []struct {
		name     string
		document string
		contains []string
		excludes []string
	}{
		{
			name: "html with scripts",
			document: `<!DOCTYPE html><html><head><script>var a = {"name":"x"};</script></head>
<body><p>{"name":"not in a script"}</p><script>window.b = 1;</script></body></html>`,
			contains: []string{`var a = {"name":"x"};`, `window.b = 1;`},
			excludes: []string{"not in a script"},
		},
		{
			name:     "plain text",
			document: `{"name":"Stephen Curry","href":"x"}`,
			contains: []string{`{"name":"Stephen Curry","href":"x"}`},
		},
		{
			name:     "html without scripts",
			document: `<html><body>{"k":1}</body></html>`,
			contains: []string{`{"k":1}`},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			out := ScriptText(test.document)
			for _, c := range test.contains {
				require.Contains(t, out, c)
			}
			for _, e := range test.excludes {
				require.NotContains(t, out, e)
			}
		})
	}
}
