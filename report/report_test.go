package report_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luthersystems/timewarp/report"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		tplStr string
		err    bool
	}{
		{
			name:   "test parse (ok)",
			tplStr: `{{value}}`,
		},
		{
			name:   "test parse (bad)",
			tplStr: `{{{value}}`,
			err:    true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := report.Parse(test.tplStr)
			if test.err != true {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestRender(t *testing.T) {
	tplStr := `{{value}}`
	tpl, err := report.Parse(tplStr)
	require.NoError(t, err)
	ctx := map[string]string{
		"value": "Some value",
	}

	res, err := report.Render(tpl, ctx)
	require.NoError(t, err)
	require.Equal(t, "Some value", res)
}

func TestRenderWithHelper(t *testing.T) {
	tplStr := `{{#if (eq val1 val2)}}eq works{{/if}}`
	tpl, err := report.Parse(tplStr)
	require.NoError(t, err)
	ctx := map[string]string{
		"val1": "1",
		"val2": "1",
	}

	expected := "eq works"

	res, err := report.Render(tpl, ctx)
	require.NoError(t, err)
	require.Equal(t, expected, res)
}

func TestRenderSummaryDefaultTemplate(t *testing.T) {
	s := report.NewSummary("day", 1, 4, []report.BucketRange{
		{Start: 1, Stop: 2},
		{Start: 3, Stop: 4},
	}, true)

	out, err := report.RenderSummary("", s)
	require.NoError(t, err)
	require.Contains(t, out, "2 bucket(s) over 4 element(s), period=day every=1")
	require.Contains(t, out, "[1, 2]")
	require.Contains(t, out, "[3, 4]")
	require.NotContains(t, out, "not sorted")
}

func TestRenderSummaryUnsortedNotesIt(t *testing.T) {
	s := report.NewSummary("day", 1, 2, []report.BucketRange{{Start: 1, Stop: 2}}, false)

	out, err := report.RenderSummary("", s)
	require.NoError(t, err)
	require.Contains(t, out, "not sorted")
}
