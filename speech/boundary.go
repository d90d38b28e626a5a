package speech

// WordIndexAtOffset maps a character offset into the spoken text to a word
// index. The spoken text is assumed to be the words joined by single spaces;
// the scan accumulates each word's length plus one separating space until
// the cumulative count exceeds the offset. This is O(n) per event, which is
// fine: boundary events are sparse and stories are short.
//
// Offsets past the end of the text clamp to the last word. An empty word
// list yields NoWord.
func WordIndexAtOffset(words []string, offset int) int {
	if len(words) == 0 {
		return NoWord
	}
	if offset < 0 {
		return 0
	}

	cumulative := 0
	for i, w := range words {
		cumulative += len(w) + 1
		if cumulative > offset {
			return i
		}
	}
	return len(words) - 1
}
