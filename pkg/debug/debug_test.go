package debug_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/walteh/papyruslex/pkg/debug"
)

func TestSplitFuncName(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		pkg      string
		function string
	}{
		{"module function", "github.com/walteh/papyruslex/pkg/lexer.New", "pkg/lexer", "New"},
		{"method", "github.com/walteh/papyruslex/pkg/lexer.(*Lexer).Lex", "pkg/lexer", "(*Lexer).Lex"},
		{"closure", "main.run.func1", "main", "run.func1"},
		{"foreign", "github.com/spf13/cobra.(*Command).Execute", "github.com/spf13/cobra", "(*Command).Execute"},
		{"no dot", "weird", "weird", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, fn := debug.SplitFuncName(tt.in)
			assert.Equal(t, tt.pkg, pkg)
			assert.Equal(t, tt.function, fn)
		})
	}
}

func TestFormatCaller(t *testing.T) {
	assert.Equal(t, "pkg/lexer:lexer.go:42", debug.FormatCaller("pkg/lexer", "/src/pkg/lexer/lexer.go", 42, false))
	assert.Equal(t, "lexer.go", debug.FileNameOfPath("lexer.go"))

	colored := debug.FormatCaller("pkg/lexer", "/src/pkg/lexer/lexer.go", 42, true)
	assert.Contains(t, colored, "pkg/lexer")
	assert.Contains(t, colored, "42")
}

func TestNewLogger(t *testing.T) {
	var out bytes.Buffer
	logger := debug.NewLogger(&out, debug.LoggerOptions{RunID: "run-1"})

	logger.Debug().Msg("hidden")
	logger.Info().Str("file", "Door.psc").Msg("lexed")

	got := out.String()
	assert.NotContains(t, got, "hidden")
	assert.Contains(t, got, "INF")
	assert.Contains(t, got, "lexed")
	assert.Contains(t, got, "run=run-1")
	assert.Contains(t, got, "file=Door.psc")
	assert.NotContains(t, got, "debug_test.go")
}

func TestNewLoggerDebug(t *testing.T) {
	var out bytes.Buffer
	ctx := debug.WithLogger(context.Background(), &out, debug.LoggerOptions{Debug: true})

	zerolog.Ctx(ctx).Debug().Msg("shown")

	got := out.String()
	assert.Contains(t, got, "DBG")
	assert.Contains(t, got, "shown")
	assert.Contains(t, got, "debug_test.go:")
	assert.Regexp(t, `run=[0-9a-f-]{36}`, got)
}
