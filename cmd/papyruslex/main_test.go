package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return fs
}

func execute(t *testing.T, fs afero.Fs, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCommand(NewGlobals(fs))
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

const door = "Int Property Gold Auto\nGold = 2"

func TestLex(t *testing.T) {
	fs := newFs(t, map[string]string{"/proj/Door.psc": door})

	out, _, err := execute(t, fs, "lex", "--builtin", "/proj/Door.psc")
	require.NoError(t, err)
	assert.Equal(t, "1:1\ttype\t\"Int\"\n"+
		"1:5\tkeyword\t\"Property\"\n"+
		"1:14\tproperty\t\"Gold\"\n"+
		"1:19\tkeyword2\t\"Auto\"\n"+
		"2:1\tproperty\t\"Gold\"\n"+
		"2:6\toperator\t\"=\"\n"+
		"2:8\tnumber\t\"2\"\n", out)
}

func TestLexJSON(t *testing.T) {
	fs := newFs(t, map[string]string{"/proj/Door.psc": door})

	out, _, err := execute(t, fs, "lex", "--builtin", "--format", "json", "--all", "/proj/Door.psc")
	require.NoError(t, err)

	var got struct {
		Path string      `json:"path"`
		Runs []styledRun `json:"runs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "/proj/Door.psc", got.Path)
	require.NotEmpty(t, got.Runs)
	assert.Equal(t, styledRun{Line: 1, Column: 4, Length: 1, Style: "default", Text: " "}, got.Runs[1])

	_, _, err = execute(t, fs, "lex", "--builtin", "--format", "xml", "/proj/Door.psc")
	assert.ErrorContains(t, err, `unknown format "xml"`)
}

func TestLexUsesConfigDir(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/proj/Door.psc":    door,
		"/proj/papyrus.hcl": "wordlists {\n  types = [\"int\"]\n}\n",
	})

	out, _, err := execute(t, fs, "lex", "--config-dir", "/proj", "/proj/Door.psc")
	require.NoError(t, err)
	assert.Contains(t, out, "1:1\ttype\t\"Int\"\n")
	assert.NotContains(t, out, "keyword")
}

func TestLexWithoutConfigDoesNothing(t *testing.T) {
	fs := newFs(t, map[string]string{"/proj/Door.psc": door})

	out, stderr, err := execute(t, fs, "lex", "--config-dir", "/proj", "/proj/Door.psc")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "no config file found")
}

func TestLexBadConfig(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/proj/Door.psc":     door,
		"/proj/papyrus.yaml": "wordlists:\n  types: [\"a-b\"]\n",
	})

	_, _, err := execute(t, fs, "lex", "--config-dir", "/proj", "/proj/Door.psc")
	assert.ErrorContains(t, err, "loading config")
}

func TestFold(t *testing.T) {
	fs := newFs(t, map[string]string{"/proj/If.psc": "If x\n  y = 1\nEndIf"})

	out, _, err := execute(t, fs, "fold", "--builtin", "/proj/If.psc")
	require.NoError(t, err)
	assert.Equal(t, "1 + 0>1 If x\n"+
		"2   1>1   y = 1\n"+
		"3   0>0 EndIf\n", out)
}

func TestFoldJSON(t *testing.T) {
	fs := newFs(t, map[string]string{"/proj/If.psc": "If x\nEndIf"})

	out, _, err := execute(t, fs, "fold", "--builtin", "--format", "json", "/proj/If.psc")
	require.NoError(t, err)

	var got struct {
		Lines []foldLine `json:"lines"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Lines, 2)
	assert.True(t, got.Lines[0].Header)
	assert.Equal(t, "0x04012400", got.Lines[0].Encoded)
	assert.Equal(t, "0x04000400", got.Lines[1].Encoded)
}

func TestPropertiesYAML(t *testing.T) {
	fs := newFs(t, map[string]string{"/proj/Door.psc": "Int Property Gold Auto\nFloat Property Rate Auto\n"})

	out, _, err := execute(t, fs, "properties", "--builtin", "--format", "yaml", "/proj/Door.psc")
	require.NoError(t, err)

	var got struct {
		Path       string          `yaml:"path"`
		Properties []propertyEntry `yaml:"properties"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "/proj/Door.psc", got.Path)
	assert.Equal(t, []propertyEntry{{Name: "Gold", Line: 1}, {Name: "Rate", Line: 2}}, got.Properties)
}

func TestDirectoryBatch(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/proj/A.psc":     "Int Property Alpha Auto",
		"/proj/sub/B.psc": "Int Property Beta Auto",
		"/proj/notes.txt": "Int Property Gamma Auto",
	})

	out, _, err := execute(t, fs, "properties", "--builtin", "/proj")
	require.NoError(t, err)
	assert.Equal(t, "==> /proj/A.psc <==\n1\tAlpha\n==> /proj/sub/B.psc <==\n1\tBeta\n", out)

	out, _, err = execute(t, fs, "properties", "--builtin", "--pattern", "**/*.txt", "/proj")
	require.NoError(t, err)
	assert.Equal(t, "1\tGamma\n", out)

	_, _, err = execute(t, fs, "properties", "--builtin", "/missing")
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/proj/Bad.psc":  "Int Property A Auto\nInt Property A Auto\nEndIf",
		"/proj/Good.psc": "If x\nEndIf",
		"/proj/Warn.psc": "Else",
	})

	out, _, err := execute(t, fs, "check", "--builtin", "/proj")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/proj/Bad.psc: 1 error(s)")
	assert.NotContains(t, err.Error(), "Good.psc")
	assert.NotContains(t, err.Error(), "Warn.psc")

	assert.Equal(t, "/proj/Bad.psc:2:14: error: property A already declared on line 1\n"+
		"/proj/Bad.psc:3:1: warning: EndIf without matching open\n"+
		"/proj/Warn.psc:1:1: warning: Else outside of a block\n", out)
}

func TestCheckVSCode(t *testing.T) {
	fs := newFs(t, map[string]string{"/proj/Warn.psc": "Else"})

	out, _, err := execute(t, fs, "check", "--builtin", "--format", "vscode", "/proj/Warn.psc")
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "papyruslex", got[0]["source"])
	assert.Equal(t, float64(2), got[0]["severity"])
}

func TestSemtok(t *testing.T) {
	fs := newFs(t, map[string]string{"/proj/Door.psc": door})

	out, _, err := execute(t, fs, "semtok", "--builtin", "/proj/Door.psc")
	require.NoError(t, err)
	assert.Equal(t, "1:1\ttype\t\"Int\"\n"+
		"1:5\tkeyword\t\"Property\"\n"+
		"1:14\tproperty [declaration]\t\"Gold\"\n"+
		"1:19\tmodifier\t\"Auto\"\n"+
		"2:1\tproperty\t\"Gold\"\n"+
		"2:6\toperator\t\"=\"\n"+
		"2:8\tnumber\t\"2\"\n", out)

	out, _, err = execute(t, fs, "semtok", "--builtin", "--lines", "2", "/proj/Door.psc")
	require.NoError(t, err)
	assert.Equal(t, "2:1\tproperty\t\"Gold\"\n2:6\toperator\t\"=\"\n2:8\tnumber\t\"2\"\n", out)

	out, _, err = execute(t, fs, "semtok", "--builtin", "--lines", "5-9", "/proj/Door.psc")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, _, err = execute(t, fs, "semtok", "--builtin", "--lines", "3-1", "/proj/Door.psc")
	assert.ErrorContains(t, err, "invalid --lines")
}

func TestSemtokEncoded(t *testing.T) {
	fs := newFs(t, map[string]string{"/proj/Door.psc": door})

	out, _, err := execute(t, fs, "semtok", "--builtin", "--encoded", "/proj/Door.psc")
	require.NoError(t, err)

	var got encodedTokens
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "keyword", got.Legend.TokenTypes[0])
	assert.Equal(t, []uint32{
		0, 0, 3, 2, 0,
		0, 4, 8, 0, 0,
		0, 9, 4, 7, 1,
		0, 5, 4, 1, 0,
		1, 0, 4, 7, 0,
		0, 5, 1, 3, 0,
		0, 2, 1, 4, 0,
	}, got.Data)
}

func TestSemtokWithoutConfig(t *testing.T) {
	fs := newFs(t, map[string]string{"/proj/Door.psc": door})

	_, _, err := execute(t, fs, "semtok", "--config-dir", "/proj", "/proj/Door.psc")
	assert.ErrorContains(t, err, "not usable")
}

func TestRenderANSI(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/proj/.editorconfig": "root = true\n\n[*.psc]\ntab_width = 2\n",
		"/proj/If.psc":        "If x\n\ty()\nEndIf\n",
	})

	out, _, err := execute(t, fs, "render", "--builtin", "--color", "never", "-n", "/proj/If.psc")
	require.NoError(t, err)
	assert.Equal(t, "1 If x\n2   y()\n3 EndIf\n", out)

	out, _, err = execute(t, fs, "render", "--builtin", "--color", "never", "--tab-width", "4", "--fold-gutter", "/proj/If.psc")
	require.NoError(t, err)
	assert.Equal(t, "+ If x\n|     y()\n  EndIf\n", out)
}

func TestRenderHTML(t *testing.T) {
	fs := newFs(t, map[string]string{"/proj/Door.psc": door})

	out, _, err := execute(t, fs, "render", "--builtin", "--format", "html", "--standalone", "/proj/Door.psc")
	require.NoError(t, err)
	assert.Contains(t, out, "<title>Door.psc</title>")
	assert.Contains(t, out, `<a class="property declaration" id="property-gold">Gold</a>`)
	assert.Contains(t, out, `<a class="property" href="#property-gold">Gold</a>`)
}

func TestView(t *testing.T) {
	fs := newFs(t, map[string]string{"/proj/If.psc": "If x\nEndIf"})

	g := NewGlobals(fs)
	g.Builtin = true

	screen := tcell.NewSimulationScreen("UTF-8")
	me := &ViewHandler{g: g, newScreen: func() (tcell.Screen, error) { return screen, nil }}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, me.Run(ctx, "/proj/If.psc"), context.DeadlineExceeded)

	assert.Error(t, me.Run(context.Background(), "/proj/Missing.psc"))
}
