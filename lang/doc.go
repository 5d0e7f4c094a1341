// Package lang expands user-defined functions in Molang scripts and splits the
// result into export directives and expression content.
//
// Molang itself is never parsed or evaluated. Every transformation works on
// raw text with a small hand-written scanner that understands only
// identifiers, quoted strings, comments and balanced delimiters.
//
// # Units
//
// A unit is the text of one .molang file:
//
//	#export entities/player(minecraft:client_entity/description/scripts/pre_animation);
//
//	function limit(x, lo = 0, hi = 1) { math.clamp(x, lo, hi) }
//
//	v.speed = limit(q.modified_move_speed * 2);
//
// [ParseUnit] strips comments, extracts function definitions, and splits the
// remaining text into statements on semicolons outside strings. Statements
// beginning with '#' are export directives; the rest is content.
//
// # Functions
//
// Informal grammar of a definition:
//
//	Definition → 'function' Identifier '(' [Param (',' Param)*] ')' '{' Body '}'
//	Param      → Identifier ['=' Expression]
//
// A call of a function is replaced by its body with each parameter bound to
// the raw text of its argument, its default expression, or nothing. Bodies
// may call other functions (or themselves); [Inline] repeats expansion until
// the text stops changing or a pass limit is reached, so recursion always
// terminates.
//
// Functions are scoped to their unit.
package lang
