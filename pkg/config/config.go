// Package config locates and loads the word lists a lexer is configured with.
//
// A config directory holds one of papyrus.hcl, papyrus.yaml or papyrus.yml:
//
//	wordlists {
//	  types     = ["bool float int string var"]
//	  fold_open = ["if", "while", "function"]
//	}
//
//	fold_suppressors = {
//	  function = ["native"]
//	}
package config

import (
	"bytes"
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/walteh/papyruslex/pkg/token"
	"github.com/walteh/papyruslex/pkg/wordlist"
)

const (
	HCLFile  = "papyrus.hcl"
	YAMLFile = "papyrus.yaml"
	YMLFile  = "papyrus.yml"
)

// FileNames are checked in order; the first one present wins.
var FileNames = []string{HCLFile, YAMLFile, YMLFile}

// 📝 Config file structure
type Config struct {
	WordLists *WordListsBlock `json:"wordlists" hcl:"wordlists,block" yaml:"wordlists"`
	// open word -> words that cancel the open when they follow it on a line
	FoldSuppressors map[string][]string `json:"fold_suppressors,omitempty" hcl:"fold_suppressors,optional" yaml:"fold_suppressors,omitempty"`
}

// 📝 One list per word list category. Entries may hold several
// whitespace-separated words.
type WordListsBlock struct {
	Operators   []string `json:"operators,omitempty" hcl:"operators,optional" yaml:"operators,omitempty"`
	FlowControl []string `json:"flow_control,omitempty" hcl:"flow_control,optional" yaml:"flow_control,omitempty"`
	Types       []string `json:"types,omitempty" hcl:"types,optional" yaml:"types,omitempty"`
	Keywords    []string `json:"keywords,omitempty" hcl:"keywords,optional" yaml:"keywords,omitempty"`
	Keywords2   []string `json:"keywords2,omitempty" hcl:"keywords2,optional" yaml:"keywords2,omitempty"`
	FoldOpen    []string `json:"fold_open,omitempty" hcl:"fold_open,optional" yaml:"fold_open,omitempty"`
	FoldMiddle  []string `json:"fold_middle,omitempty" hcl:"fold_middle,optional" yaml:"fold_middle,omitempty"`
	FoldClose   []string `json:"fold_close,omitempty" hcl:"fold_close,optional" yaml:"fold_close,omitempty"`
}

func (b *WordListsBlock) byCategory() map[wordlist.Category][]string {
	return map[wordlist.Category][]string{
		wordlist.Operators:   b.Operators,
		wordlist.FlowControl: b.FlowControl,
		wordlist.Types:       b.Types,
		wordlist.Keywords:    b.Keywords,
		wordlist.Keywords2:   b.Keywords2,
		wordlist.FoldOpen:    b.FoldOpen,
		wordlist.FoldMiddle:  b.FoldMiddle,
		wordlist.FoldClose:   b.FoldClose,
	}
}

// Locator finds the config file in a directory.
type Locator struct {
	fs  afero.Fs
	dir string
}

func NewLocator(fs afero.Fs, dir string) *Locator {
	return &Locator{fs: fs, dir: dir}
}

func (l *Locator) Dir() string { return l.dir }

// Path returns the config file that would be loaded.
func (l *Locator) Path() (string, bool) {
	for _, name := range FileNames {
		path := filepath.Join(l.dir, name)
		if ok, err := afero.Exists(l.fs, path); err == nil && ok {
			return path, true
		}
	}
	return "", false
}

// Available reports whether a config file exists. A lexer built from this
// locator does nothing until it does.
func (l *Locator) Available() bool {
	_, ok := l.Path()
	return ok
}

// Load reads, decodes and validates the config file.
func (l *Locator) Load(ctx context.Context) (*Config, error) {
	path, ok := l.Path()
	if !ok {
		return nil, errors.Errorf("no %s in %s", strings.Join(FileNames, ", "), l.dir)
	}

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Int("bytes", len(data)).Msg("loading config")

	cfg, err := Parse(path, data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data as YAML or HCL, picked by the extension of path.
func Parse(path string, data []byte) (*Config, error) {
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		var cfg Config
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, errors.Errorf("parsing YAML: %w", err)
		}
		return &cfg, nil
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	ctx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var cfg Config
	diags = gohcl.DecodeBody(hclFile.Body, ctx, &cfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}
	return &cfg, nil
}

// Validate reports every problem in the config at once.
func (c *Config) Validate() error {
	var merr *multierror.Error

	if c.WordLists == nil {
		merr = multierror.Append(merr, errors.New("missing wordlists block"))
		return merr.ErrorOrNil()
	}

	lists := c.WordLists.byCategory()
	for i := 0; i < wordlist.CategoryCount; i++ {
		cat := wordlist.Category(i)
		for _, entry := range lists[cat] {
			for _, word := range strings.Fields(entry) {
				if !isWord(word) {
					merr = multierror.Append(merr, errors.Errorf("%s: %q is not a single identifier and can never match", cat, word))
				}
			}
		}
	}

	words := c.Words()
	opens := make([]string, 0, len(c.FoldSuppressors))
	for open := range c.FoldSuppressors {
		opens = append(opens, open)
	}
	sort.Strings(opens)
	for _, open := range opens {
		if !words.Contains(wordlist.FoldOpen, open) {
			merr = multierror.Append(merr, errors.Errorf("fold_suppressors: %q is not in fold_open", open))
		}
		if len(c.FoldSuppressors[open]) == 0 {
			merr = multierror.Append(merr, errors.Errorf("fold_suppressors: %q has no suppressing words", open))
		}
	}

	return merr.ErrorOrNil()
}

func isWord(s string) bool {
	toks := token.TokenizeBytes([]byte(s), 0)
	return len(toks) == 1 && toks[0].Kind == token.Identifier && toks[0].Content == s
}

// Words builds the word list set. Missing lists stay empty.
func (c *Config) Words() *wordlist.Set {
	set := wordlist.New()
	if c.WordLists == nil {
		return set
	}
	for cat, entries := range c.WordLists.byCategory() {
		set.Add(cat, entries...)
	}
	return set
}

// Suppressors returns the fold suppressors with every word lowercased.
func (c *Config) Suppressors() map[string][]string {
	out := make(map[string][]string, len(c.FoldSuppressors))
	for open, words := range c.FoldSuppressors {
		lowered := make([]string, 0, len(words))
		for _, w := range words {
			for _, f := range strings.Fields(w) {
				lowered = append(lowered, strings.ToLower(f))
			}
		}
		out[strings.ToLower(open)] = lowered
	}
	return out
}
