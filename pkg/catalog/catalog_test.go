package catalog

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/pimfix/pkg/engine"
	"github.com/arthur-debert/pimfix/pkg/errors"
	"github.com/arthur-debert/pimfix/pkg/rules"
)

const sampleCSV = `Product no.,Language,Product Long Description
1001,en,Tested to EN 388:2016
1001,de,Preis&copy: 5
1002,en,already clean
1003,en,Tested to EN 388:2016
`

func newProcessor(t *testing.T, opts Options) *Processor {
	t.Helper()
	if opts.Field == "" {
		opts.Field = "Product Long Description"
	}
	p, err := NewProcessor(engine.New(rules.LoadDefault()), opts)
	require.NoError(t, err)
	return p
}

func TestReadWriteKeepsBOM(t *testing.T) {
	in := "\xEF\xBB\xBFa,b\n1,2\n"

	table, err := Read(strings.NewReader(in), ',')
	require.NoError(t, err)
	assert.True(t, table.BOM)
	assert.Equal(t, []string{"a", "b"}, table.Header, "BOM must not leak into the first column name")
	assert.Equal(t, [][]string{{"1", "2"}}, table.Rows)

	var out bytes.Buffer
	require.NoError(t, Write(&out, table, ','))
	assert.Equal(t, in, out.String())
}

func TestReadWithoutBOM(t *testing.T) {
	table, err := Read(strings.NewReader("a;b\n\"x;y\";2\n"), ';')
	require.NoError(t, err)
	assert.False(t, table.BOM)
	assert.Equal(t, [][]string{{"x;y", "2"}}, table.Rows)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(strings.NewReader(""), ',')
	assert.True(t, errors.IsErrorCode(err, errors.ErrCSVRead))

	_, err = Read(strings.NewReader("a,b\n1,2,3\n"), ',')
	assert.True(t, errors.IsErrorCode(err, errors.ErrCSVRead))
}

func TestTableValues(t *testing.T) {
	table, err := Read(strings.NewReader(sampleCSV), ',')
	require.NoError(t, err)

	values, err := table.Values("Language")
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "de", "en", "en"}, values)

	_, err = table.Values("Nope")
	assert.True(t, errors.IsErrorCode(err, errors.ErrFieldMissing))
}

func TestProcess(t *testing.T) {
	p := newProcessor(t, Options{
		KeyColumns: []string{"Product no.", "Language", "Missing"},
		Workers:    1,
		CacheSize:  16,
	})

	var out bytes.Buffer
	report, err := p.Process(context.Background(), strings.NewReader(sampleCSV), &out)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Rows)
	assert.Equal(t, 3, report.Changed)
	assert.Equal(t, int64(1), report.CacheHits, "row 4 repeats row 1")
	assert.Equal(t, map[string]int{
		"fix En:yyyy standard":           2,
		"invalid html entities":          1,
		"invalid html numbered entities": 1,
	}, report.RuleCounts)

	first := report.Changes[0]
	assert.Equal(t, 1, first.Row)
	assert.Equal(t, map[string]string{"Product no.": "1001", "Language": "en"}, first.Keys)
	assert.Equal(t, []string{"fix En:yyyy standard"}, first.Rules)
	assert.Equal(t, "Tested to EN 388:2016", first.Old)
	assert.Equal(t, "Tested to EN&nbsp;388:2016", first.New)

	assert.Equal(t, 2, report.Changes[1].Row)
	assert.Equal(t, "Preis© 5", report.Changes[1].New)
	assert.Equal(t, 4, report.Changes[2].Row)

	assert.Equal(t, `Product no.,Language,Product Long Description
1001,en,Tested to EN&nbsp;388:2016
1001,de,Preis`+"©"+` 5
1002,en,already clean
1003,en,Tested to EN&nbsp;388:2016
`, out.String())
}

func TestProcessWithoutCache(t *testing.T) {
	p := newProcessor(t, Options{})
	report, err := p.Process(context.Background(), strings.NewReader(sampleCSV), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Changed)
	assert.Zero(t, report.CacheHits)
}

func TestProcessMissingField(t *testing.T) {
	p := newProcessor(t, Options{Field: "Description"})
	_, err := p.Process(context.Background(), strings.NewReader(sampleCSV), nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFieldMissing))
}

func TestProcessCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newProcessor(t, Options{Workers: 1})
	_, err := p.Process(ctx, strings.NewReader(sampleCSV), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewProcessorRequiresField(t *testing.T) {
	_, err := NewProcessor(engine.New(nil), Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestProcessManyRowsKeepsOrder(t *testing.T) {
	var b strings.Builder
	b.WriteString("id,text\n")
	for i := 0; i < 200; i++ {
		if i%2 == 0 {
			b.WriteString("x,EN 1:2000\n")
		} else {
			b.WriteString("y,plain\n")
		}
	}

	p := newProcessor(t, Options{Field: "text", Workers: 8})
	table, err := Read(strings.NewReader(b.String()), ',')
	require.NoError(t, err)

	report, err := p.Normalize(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, 100, report.Changed)
	for i, row := range table.Rows {
		if i%2 == 0 {
			assert.Equal(t, "EN&nbsp;1:2000", row[1])
		} else {
			assert.Equal(t, "plain", row[1])
		}
	}
	for i := 1; i < len(report.Changes); i++ {
		assert.Less(t, report.Changes[i-1].Row, report.Changes[i].Row)
	}
}
