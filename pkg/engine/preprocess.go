package engine

import "strings"

// kwPrefix marks string literals that were keywords in the source.
const kwPrefix = "__kw_"

// preprocessSource rewrites scene-script syntax that zygomys does not
// accept before the source is loaded:
//
//   - :keyword becomes the string literal "__kw_keyword", so keywords never
//     collide with user bindings of the same name.
//   - kebab-case identifiers become snake_case (round-union -> round_union),
//     since zygomys reads a hyphen as subtraction. A hyphen is only rewritten
//     between an identifier character and a letter, so (- 10 5) and x-1
//     keep their meaning.
//   - ; and ;; line comments become // comments.
//
// String literals, double-quoted or backticked, pass through unchanged.
func preprocessSource(source string) string {
	var out strings.Builder
	out.Grow(len(source) + len(source)/4)

	src := source
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '"':
			j := skipQuoted(src, i)
			out.WriteString(src[i:j])
			i = j

		case c == '`':
			j := len(src)
			if k := strings.IndexByte(src[i+1:], '`'); k >= 0 {
				j = i + 1 + k + 1
			}
			out.WriteString(src[i:j])
			i = j

		case c == ';':
			j := i
			for j < len(src) && src[j] == ';' {
				j++
			}
			end := len(src)
			if k := strings.IndexByte(src[j:], '\n'); k >= 0 {
				end = j + k
			}
			out.WriteString("//")
			out.WriteString(src[j:end])
			i = end

		case c == ':' && i+1 < len(src) && src[i+1] == '=':
			out.WriteString(":=")
			i += 2

		case c == ':' && i+1 < len(src) && isLetter(src[i+1]):
			j := i + 1
			for j < len(src) && isKWChar(src[j]) {
				j++
			}
			out.WriteByte('"')
			out.WriteString(kwPrefix)
			out.WriteString(src[i+1 : j])
			out.WriteByte('"')
			i = j

		case c == '-' && i > 0 && i+1 < len(src) && isIdentChar(src[i-1]) && isLetter(src[i+1]):
			out.WriteByte('_')
			i++

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// skipQuoted returns the index just past the double-quoted literal that
// starts at i, honouring backslash escapes.
func skipQuoted(src string, i int) int {
	j := i + 1
	for j < len(src) && src[j] != '"' {
		if src[j] == '\\' && j+1 < len(src) {
			j += 2
			continue
		}
		j++
	}
	if j < len(src) {
		j++
	}
	return j
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// builtinName is the identifier a kebab-case builtin is registered under.
func builtinName(kebab string) string {
	return strings.ReplaceAll(kebab, "-", "_")
}
