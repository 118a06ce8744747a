/*
Package pathkey implements the flat key format used to identify packed files.

A key is a sequence of path segments joined with '/'. A literal '/' inside a
segment is written as the two-byte sequence `\/`. Any other backslash is kept
as is, so the format is not fully reversible for segment names ending with a
backslash: segments `a\` and `b` join into `a\/b`, which decodes as a single
segment `a/b`.
*/
package pathkey

import "strings"

// Separator delimits segments of the key.
const Separator = '/'

const escape = '\\'

// EncodeSegment escapes every '/' in name.
func EncodeSegment(name string) string {
	return strings.ReplaceAll(name, "/", `\/`)
}

// Join appends already escaped segment to prefix. Empty prefix means the
// segment is the top-level one.
func Join(prefix, segment string) string {
	if prefix == "" {
		return segment
	}

	return prefix + string(Separator) + segment
}

// Decode splits key into unescaped segments in order.
func Decode(key string) []string {
	var (
		res []string
		sb  strings.Builder
	)

	for i := 0; i < len(key); i++ {
		switch c := key[i]; {
		case c == escape && i+1 < len(key) && key[i+1] == Separator:
			sb.WriteByte(Separator)
			i++
		case c == Separator:
			res = append(res, sb.String())
			sb.Reset()
		default:
			sb.WriteByte(c)
		}
	}

	if sb.Len() > 0 {
		res = append(res, sb.String())
	}

	return res
}
