package fold_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/walteh/papyruslex/pkg/fold"
	"github.com/walteh/papyruslex/pkg/token"
	"github.com/walteh/papyruslex/pkg/wordlist"
)

func computer() *fold.Computer {
	return fold.NewComputer(wordlist.Papyrus(), wordlist.PapyrusFoldSuppressors())
}

// levels folds each line in order, carrying Next into the following line.
func levels(c *fold.Computer, lines ...string) []fold.Level {
	var out []fold.Level
	depth := 0
	for _, l := range lines {
		lvl := c.Compute(token.TokenizeBytes([]byte(l), 0), depth)
		out = append(out, lvl)
		depth = lvl.Next
	}
	return out
}

func TestIfBlock(t *testing.T) {
	got := levels(computer(), "If x", "  y = 1", "EndIf")
	assert.Equal(t, []fold.Level{
		{Depth: 0, Next: 1, Header: true},
		{Depth: 1, Next: 1},
		{Depth: 0, Next: 0},
	}, got)
}

func TestBalancedNesting(t *testing.T) {
	const n = 4
	var lines []string
	for i := 0; i < n; i++ {
		lines = append(lines, "While true")
	}
	lines = append(lines, "x += 1")
	for i := 0; i < n; i++ {
		lines = append(lines, "EndWhile")
	}

	got := levels(computer(), lines...)

	var depths []int
	var headers []bool
	for _, l := range got {
		depths = append(depths, l.Depth)
		headers = append(headers, l.Header)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 3, 2, 1, 0}, depths)
	assert.Equal(t, []bool{true, true, true, true, false, false, false, false, false}, headers)
}

func TestMiddleMarker(t *testing.T) {
	got := levels(computer(), "If a", "b()", "ElseIf c", "d()", "Else", "EndIf")
	assert.Equal(t, []fold.Level{
		{Depth: 0, Next: 1, Header: true},
		{Depth: 1, Next: 1},
		{Depth: 0, Next: 1, Header: true},
		{Depth: 1, Next: 1},
		{Depth: 0, Next: 1, Header: true},
		{Depth: 0, Next: 0},
	}, got)
}

func TestCloseWithoutOpenClampsAtZero(t *testing.T) {
	got := levels(computer(), "EndIf EndIf", "x")
	assert.Equal(t, fold.Level{Depth: 0, Next: 0}, got[0])
	assert.Equal(t, fold.Level{Depth: 0, Next: 0}, got[1])
}

func TestOpenAndCloseOnOneLine(t *testing.T) {
	got := levels(computer(), "If a", "EndIf If b")
	assert.Equal(t, fold.Level{Depth: 0, Next: 1, Header: true}, got[1])
}

func TestSuppressors(t *testing.T) {
	c := computer()

	tests := []struct {
		line   string
		header bool
	}{
		{"Function Foo() Native", false},
		{"Function Foo() Global Native", false},
		{"Function Foo()", true},
		{"Event OnInit()", true},
		{"Int Property Health Auto", false},
		{"Int Property Gold = 5 AutoReadOnly", false},
		{"Int Property Full", true},
		{"Auto State Waiting", true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := c.Compute(token.TokenizeBytes([]byte(tt.line), 0), 0)
			assert.Equal(t, tt.header, got.Header)
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	l := fold.Level{Depth: 2, Next: 3, Header: true}
	v := l.Encode()

	assert.Equal(t, fold.Base+2, v&fold.NumberMask)
	assert.NotZero(t, v&fold.HeaderFlag)
	assert.Equal(t, l, fold.Decode(v))

	blank := fold.Level{Depth: 1, Next: 1, Blank: true}
	assert.Equal(t, blank, fold.Decode(blank.Encode()))

	// plain editor levels without the high half
	assert.Equal(t, fold.Level{Depth: 1, Next: 2, Header: true}, fold.Decode(fold.Base+1|fold.HeaderFlag))
	assert.Equal(t, fold.Level{}, fold.Decode(0))
}

func TestClassify(t *testing.T) {
	c := computer()
	assert.Equal(t, fold.Open, c.Classify("IF"))
	assert.Equal(t, fold.Middle, c.Classify("else"))
	assert.Equal(t, fold.Close, c.Classify("EndFunction"))
	assert.Equal(t, fold.None, c.Classify("x"))
	assert.Equal(t, "open", fold.Open.String())
}

func TestMarkers(t *testing.T) {
	marks := computer().Markers(token.TokenizeBytes([]byte("If a EndIf Function f() Native Else"), 0))

	var got []string
	for _, m := range marks {
		got = append(got, m.Marker.String()+":"+m.Token.Content)
	}
	assert.Equal(t, []string{"open:If", "close:EndIf", "middle:Else"}, got)
}
