package commands

import (
	"strings"
	"testing"

	"github.com/leapstack-labs/wordgen/internal/cli/config"
	clitestutil "github.com/leapstack-labs/wordgen/internal/cli/testutil"
	"github.com/leapstack-labs/wordgen/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) (*replSession, *clitestutil.TestRenderer) {
	t.Helper()
	tr := clitestutil.NewTestRendererMarkdown()
	s := newREPLSession(&CommandContext{
		Cfg:      config.Default(),
		Logger:   testutil.NewTestLogger(t),
		Renderer: tr.Renderer,
	})
	return s, tr
}

func TestREPL_DefineAndGenerate(t *testing.T) {
	s, tr := newTestSession(t)

	assert.False(t, s.handle(".def C=p"))
	assert.False(t, s.handle(".def V=a/o"))
	assert.False(t, s.handle(".count 2"))
	assert.False(t, s.handle("{C}{V}"))

	words := strings.Fields(tr.Output())
	assert.ElementsMatch(t, []string{"pa", "po"}, words)
	assert.Empty(t, tr.ErrorOutput())
	assert.Equal(t, "{C}{V}", s.pattern)
}

func TestREPL_ShortBatchWarns(t *testing.T) {
	s, tr := newTestSession(t)

	s.handle(".count 3")
	s.handle("a/b")
	assert.Contains(t, tr.ErrorOutput(), "generated 2 of 3 words")
}

func TestREPL_SeedReproduces(t *testing.T) {
	s, tr := newTestSession(t)
	s.handle(".def C=p/t/k/m/n/s")
	s.handle(".count 3")

	s.handle(".seed 99")
	s.handle("{C}{C}{C}")
	first := tr.Output()

	tr.Reset()
	s.handle(".seed 99")
	s.handle(".again")
	assert.Equal(t, first, tr.Output())

	tr.Reset()
	s.handle(".seed")
	assert.Equal(t, "seed 99\n", tr.Output())
}

func TestREPL_Undef(t *testing.T) {
	s, tr := newTestSession(t)
	s.handle(".def C=p")
	s.handle(".def C=t")

	s.handle(".undef C")
	assert.Empty(t, s.defs)

	s.handle(".undef C")
	assert.Contains(t, tr.ErrorOutput(), "{C} is not defined")
}

func TestREPL_ListDefs(t *testing.T) {
	s, tr := newTestSession(t)
	s.handle(".defs")
	assert.Contains(t, tr.Output(), "(no definitions)")

	tr.Reset()
	s.handle(".def C=p")
	s.handle(".def C=t")
	s.handle(".defs")
	assert.Contains(t, tr.Output(), "overridden")
	assert.Equal(t, []string{"C"}, s.definedNames(""))
}

func TestREPL_Load(t *testing.T) {
	dir := testutil.SetupProject(t)
	s, tr := newTestSession(t)

	s.handle(".load " + dir + "/cv.yaml")
	assert.Empty(t, tr.ErrorOutput())
	assert.Equal(t, "{C}{V}", s.pattern)
	assert.Equal(t, 10, s.count)
	assert.Len(t, s.defs, 2)

	s.handle(".load " + dir + "/missing.yaml")
	assert.NotEmpty(t, tr.ErrorOutput())
}

func TestREPL_CheckAndExplain(t *testing.T) {
	s, tr := newTestSession(t)

	s.handle(".check [{X}")
	assert.Contains(t, tr.Output(), "WG01")
	assert.Contains(t, tr.Output(), "WG02")

	tr.Reset()
	s.handle(".def X=x")
	s.handle(".check {X}")
	assert.Contains(t, tr.ErrorOutput(), "No issues found")

	tr.Reset()
	s.handle(".explain a*3/b")
	assert.Contains(t, tr.Output(), "75.0%")
}

func TestREPL_Errors(t *testing.T) {
	tests := []struct {
		line    string
		wantErr string
	}{
		{".again", "no pattern yet"},
		{".count zero", "usage: .count"},
		{".count -1", "usage: .count"},
		{".seed x", "usage: .seed"},
		{".def nope", "NAME=PATTERN"},
		{".bogus", "unknown command: .bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			s, tr := newTestSession(t)
			assert.False(t, s.handle(tt.line))
			assert.Contains(t, tr.ErrorOutput(), tt.wantErr)
		})
	}
}

func TestREPL_Quit(t *testing.T) {
	s, tr := newTestSession(t)
	assert.False(t, s.handle(""))
	assert.False(t, s.handle(".help"))
	assert.Contains(t, tr.Output(), ".def NAME=PATTERN")
	assert.True(t, s.handle(".quit"))
	assert.True(t, s.handle(".EXIT"))
}

func TestREPL_Completer(t *testing.T) {
	s, _ := newTestSession(t)
	require.NotNil(t, s.completer())
}
