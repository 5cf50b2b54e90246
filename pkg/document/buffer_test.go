package document_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/papyruslex/pkg/document"
	"github.com/walteh/papyruslex/pkg/fold"
	"github.com/walteh/papyruslex/pkg/style"
)

func TestBufferLines(t *testing.T) {
	b := document.NewBuffer("If x\r\n  y = 1\nEndIf")

	require.Equal(t, 3, b.LineCount())
	assert.Equal(t, "If x", b.Line(0))
	assert.Equal(t, "  y = 1", b.Line(1))
	assert.Equal(t, "EndIf", b.Line(2))
	assert.Equal(t, 1, b.LineFromPosition(b.LineStart(1)+3))
	assert.Equal(t, byte(0), b.ByteAt(-1))
	assert.Equal(t, byte(0), b.ByteAt(b.Length()))
	assert.Equal(t, []byte("y = 1"), document.Text(b, 8, 13))
}

func TestBufferStylesAndRuns(t *testing.T) {
	b := document.NewBuffer("Int x\n; c")
	b.SetStyle(0, 3, style.Type)
	b.SetStyle(6, 100, style.Comment)

	assert.Equal(t, style.Type, b.StyleAt(2))
	assert.Equal(t, style.Default, b.StyleAt(3))
	assert.Equal(t, style.Comment, b.StyleAt(8))

	assert.Equal(t, []document.Run{
		{Pos: 0, Length: 3, Style: style.Type},
		{Pos: 3, Length: 2, Style: style.Default},
	}, b.LineRuns(0))

	b.SetStyle(5, 1, style.CommentMultiLine)
	assert.Equal(t, style.CommentMultiLine, b.InitStyle(1))
	assert.Equal(t, style.Default, b.InitStyle(0))
}

func TestBufferDefaultLevels(t *testing.T) {
	b := document.NewBuffer("a\nb")
	for _, l := range b.Levels() {
		assert.Equal(t, fold.Level{}, l)
	}
	assert.Equal(t, fold.Base, b.LevelAt(5))
}

func TestBufferInsertShiftsAnnotations(t *testing.T) {
	b := document.NewBuffer("If x\nEndIf")
	b.SetStyle(0, 2, style.FlowControl)
	b.SetLevel(1, fold.Level{Depth: 1}.Encode())

	line, delta := b.Insert(0, "; hi\n")
	assert.Equal(t, 0, line)
	assert.Equal(t, 1, delta)
	assert.Equal(t, "; hi\nIf x\nEndIf", b.Text())
	assert.Equal(t, style.Default, b.StyleAt(0))
	assert.Equal(t, style.FlowControl, b.StyleAt(5))
	assert.Equal(t, 1, fold.Decode(b.LevelAt(2)).Depth)
}

func TestBufferDelete(t *testing.T) {
	b := document.NewBuffer("a\nb\nc")
	b.SetLevel(2, fold.Level{Depth: 3}.Encode())

	line, delta := b.Delete(1, 2)
	assert.Equal(t, 0, line)
	assert.Equal(t, -1, delta)
	assert.Equal(t, "a\nc", b.Text())
	assert.Equal(t, 3, fold.Decode(b.LevelAt(1)).Depth)
}

func TestManagerOpen(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/scripts/a.psc", []byte("ScriptName A"), 0o644))

	m := document.NewManager(fs)
	doc, err := m.Open("file:///scripts/a.psc")
	require.NoError(t, err)
	assert.Equal(t, "ScriptName A", doc.Text())

	again, ok := m.Get("/scripts/a.psc")
	require.True(t, ok)
	assert.Same(t, doc, again)

	m.Delete("/scripts/a.psc")
	_, ok = m.Get("/scripts/a.psc")
	assert.False(t, ok)

	_, err = m.Open("/scripts/missing.psc")
	assert.Error(t, err)
}
