// Package property caches the property names a script declares, so the lexer
// can style references to them anywhere in the document.
package property

import (
	"sort"
	"strings"
)

// Property is one declaration.
type Property struct {
	Name string
	Line int
}

// Cache maps declaring lines to property names and keeps a name index for
// membership tests. It belongs to a single document and has a single writer:
// the lex pass of that document.
type Cache struct {
	byLine map[int][]Property
	// lowercased name -> number of declarations
	names map[string]int
}

func NewCache() *Cache {
	return &Cache{
		byLine: map[int][]Property{},
		names:  map[string]int{},
	}
}

// Reset empties the cache.
func (c *Cache) Reset() {
	c.byLine = map[int][]Property{}
	c.names = map[string]int{}
}

// Add records a declaration of name on line.
func (c *Cache) Add(name string, line int) {
	for _, p := range c.byLine[line] {
		if strings.EqualFold(p.Name, name) {
			return
		}
	}
	c.byLine[line] = append(c.byLine[line], Property{Name: name, Line: line})
	c.names[strings.ToLower(name)]++
}

// ClearLine drops every declaration recorded for line. It reports whether
// anything was removed.
func (c *Cache) ClearLine(line int) bool {
	props, ok := c.byLine[line]
	if !ok {
		return false
	}
	delete(c.byLine, line)
	for _, p := range props {
		c.dropName(p.Name)
	}
	return true
}

// Has reports whether name is declared anywhere, ignoring case.
func (c *Cache) Has(name string) bool {
	_, ok := c.names[strings.ToLower(name)]
	return ok
}

// DeclaredOn reports whether name is declared on line.
func (c *Cache) DeclaredOn(name string, line int) bool {
	for _, p := range c.byLine[line] {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

// ShiftLines moves declarations at or after from by delta lines. Declarations
// on lines removed by a negative delta are dropped.
func (c *Cache) ShiftLines(from, delta int) {
	if delta == 0 {
		return
	}
	moved := map[int][]Property{}
	for line, props := range c.byLine {
		if line < from {
			moved[line] = props
			continue
		}
		if delta < 0 && line < from-delta {
			for _, p := range props {
				c.dropName(p.Name)
			}
			continue
		}
		next := make([]Property, len(props))
		for i, p := range props {
			next[i] = Property{Name: p.Name, Line: line + delta}
		}
		moved[line+delta] = next
	}
	c.byLine = moved
}

func (c *Cache) dropName(name string) {
	key := strings.ToLower(name)
	if c.names[key] <= 1 {
		delete(c.names, key)
	} else {
		c.names[key]--
	}
}

// Len is the number of recorded declarations.
func (c *Cache) Len() int {
	n := 0
	for _, props := range c.byLine {
		n += len(props)
	}
	return n
}

// Properties returns every declaration ordered by line.
func (c *Cache) Properties() []Property {
	out := make([]Property, 0, c.Len())
	for _, props := range c.byLine {
		out = append(out, props...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Names returns the sorted, lowercased set of declared names.
func (c *Cache) Names() []string {
	out := make([]string, 0, len(c.names))
	for n := range c.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
