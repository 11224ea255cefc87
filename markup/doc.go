// Package markup tokenizes and parses the hotmark template language into an
// AST shared by the static and hot-reload backends.
//
// # Grammar
//
// Informal EBNF:
//
//	Markups   → Markup*
//	Markup    → String | Number              (literal text)
//	          | '(' Expr ')'                 (splice)
//	          | '{' Markups '}'              (block)
//	          | Name Attr* ( '{' Markups '}' | ';' )   (element)
//	          | Name                         (symbol)
//	          | '@' Directive
//	Attr      → Name '=' Value | Name '?' '[' Expr ']' | Name ( '[' Expr ']' )?
//	Name      → Ident ( ('-' | ':') (Ident | Number) )*
//	Directive → 'if' Expr Block ( '@' 'else' 'if' Expr Block )* ( '@' 'else' Block )?
//	          | 'for' Ident ( ',' Ident )? 'in' Expr Block
//	          | 'while' Expr Block
//	          | 'match' Expr '{' ( Pattern '=>' ( Block | Markup ) ','? )* '}'
//	          | 'let' Ident '=' Expr ';'
//
// Expressions are opaque to this package; they are captured as source text
// and evaluated by the host package.
//
// # Invocation
//
// Source may be bare markup or wrapped by an invocation keyword, by default
// [DefaultKeyword]:
//
//	html! {
//	    div class="greeting" { "hello " (name) }
//	}
//
// # Front Ends
//
// [GoScanner] tokenizes with the Go lexer and is used for templates built in
// Go code. [TextLexer] tokenizes plain text recovered from disk. Both
// produce identical token trees for the same input.
package markup
