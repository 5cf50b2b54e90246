/*
Package semtok turns a lexed Papyrus document into LSP semantic tokens.

🎨 Semantic Tokens Overview:
---------------------------
The lexer already assigns every byte a style. This package reads those styles
back as runs and maps each non-default run to an LSP token type, so an editor
client can highlight without running the lexer itself.

Architecture:
------------

	Script Text                    LSP Client
	     |                             ^
	     v                             |
	+----------+   styles   +-------------+   []uint32
	|  @lexer  | ---------> |   @semtok   | ----------->
	+----------+            +-------------+
	     |                        |
	property cache          +-----+------+
	     |                  |            |
	     +------------>  Full File   Range-based
	     (declarations)   Tokens       Tokens

🔍 Style -> Token Mapping:
-------------------------

	Style                          Token         Modifiers
	-----                          -----         ---------
	flow_control, keyword, fold_*  keyword
	keyword2                       modifier
	type                           type
	operator                       operator
	number                         number
	string                         string
	comment, comment_multiline     comment
	comment_doc                    comment       documentation
	property                       property      declaration, readonly
	function                       function      declaration
	class                          class         declaration

A run never crosses a line: multi-line comments and strings are split per
line and line terminators are dropped.

Example Usage:
-------------

	tokens, err := semtok.GetTokensForText(ctx, content, lx)
	if err != nil {
	    return err
	}
	data := semtok.Encode(tokens, position.NewIndex(content))
*/
package semtok
