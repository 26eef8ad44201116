package util

import "strings"

// CarveJSON extracts the best-effort JSON payload embedded in free text.
// Generative models routinely wrap JSON in prose or markdown fences, so the
// policy is deliberately lenient: take the substring from the first '{' (or
// '[', whichever comes first) to the last matching '}' (or ']'). The second
// return value reports whether any candidate payload was found at all; it
// does not guarantee the substring is valid JSON.
func CarveJSON(raw string) (string, bool) {
	objStart := strings.IndexByte(raw, '{')
	arrStart := strings.IndexByte(raw, '[')

	start := objStart
	closer := byte('}')
	if start == -1 || (arrStart != -1 && arrStart < start) {
		start = arrStart
		closer = ']'
	}
	if start == -1 {
		return "", false
	}

	end := strings.LastIndexByte(raw, closer)
	if end <= start {
		return "", false
	}
	return raw[start : end+1], true
}
