package wordlist

// Papyrus returns the word lists for stock Papyrus Script.
func Papyrus() *Set {
	s := New()
	s.Add(Operators, "as new length")
	s.Add(FlowControl, "if elseif else endif while endwhile return")
	s.Add(Types, "bool float int string var")
	s.Add(Keywords,
		"scriptname extends import",
		"function endfunction event endevent",
		"property endproperty state endstate",
	)
	s.Add(Keywords2,
		"auto autoreadonly conditional global hidden native",
		"true false none self parent",
	)
	s.Add(FoldOpen, "if while function event property state")
	s.Add(FoldMiddle, "else elseif")
	s.Add(FoldClose, "endif endwhile endfunction endevent endproperty endstate")
	return s
}

// PapyrusFoldSuppressors lists, per fold-open word, the words that cancel the
// open when they follow it on the same line: native functions and events and
// auto properties have no body.
func PapyrusFoldSuppressors() map[string][]string {
	return map[string][]string{
		"function": {"native"},
		"event":    {"native"},
		"property": {"auto", "autoreadonly"},
	}
}
