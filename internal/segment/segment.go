// Package segment turns raw text into bounded-length units suitable for
// one TTS request each. Splitting respects line, sentence and word
// boundaries, in that order of preference.
package segment

import "strings"

// DefaultMaxUnitLen is the unit length cap used when none is configured.
const DefaultMaxUnitLen = 300

// Split segments text into an ordered list of units of at most maxLen
// characters. Lines are processed independently; within a line, whole
// sentences are packed greedily into units, and a sentence that alone
// exceeds maxLen is broken at word boundaries instead. The only units
// allowed to exceed maxLen are those carrying a single over-length word.
//
// Output order is the reading order of the input. Empty lines contribute
// nothing; whitespace-only lines yield a whitespace unit, which the fetch
// stage skips without a network call.
func Split(text string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = DefaultMaxUnitLen
	}

	var units []string
	for _, line := range strings.Split(text, "\n") {
		units = append(units, splitLine(line, maxLen)...)
	}
	return units
}

// splitLine packs the sentences of a single line into units.
func splitLine(line string, maxLen int) []string {
	if line == "" {
		return nil
	}

	var units []string
	var chunk strings.Builder

	flush := func() {
		if chunk.Len() > 0 {
			units = append(units, chunk.String())
			chunk.Reset()
		}
	}

	for _, s := range sentences(line) {
		if len(s) > maxLen {
			// Too long to ever fit a chunk: flush what we have and
			// break the sentence itself. Nothing is packed after
			// the resulting parts.
			flush()
			units = append(units, breakLong(s, maxLen)...)
			continue
		}
		if chunk.Len() > 0 && chunk.Len()+1+len(s) > maxLen {
			flush()
		}
		if chunk.Len() > 0 {
			chunk.WriteByte(' ')
		}
		chunk.WriteString(s)
	}
	flush()

	return units
}

// sentences splits a line after '.', '!' or '?' followed by whitespace.
// The boundary whitespace is consumed, not retained. A line with no
// boundary (including a whitespace-only line) is one sentence.
func sentences(line string) []string {
	var out []string

	start := 0
	i := 0
	for i < len(line) {
		if isTerminator(line[i]) && i+1 < len(line) && isSpace(line[i+1]) {
			out = append(out, line[start:i+1])
			i++
			for i < len(line) && isSpace(line[i]) {
				i++
			}
			start = i
			continue
		}
		i++
	}
	if start < len(line) {
		out = append(out, line[start:])
	}
	return out
}

// breakLong splits an over-length sentence at single-space word boundaries.
// Words are packed greedily; the running length counts each word plus one
// separator, and a part is flushed before a word that would push the total
// past maxLen. A single word longer than maxLen still lands whole in its
// own part -- words are never cut mid-character.
func breakLong(sentence string, maxLen int) []string {
	words := strings.Split(sentence, " ")

	var parts []string
	var part []string
	total := 0

	for _, w := range words {
		if len(part) > 0 && total+len(w) > maxLen {
			parts = append(parts, strings.Join(part, " "))
			part = part[:0]
			total = 0
		}
		part = append(part, w)
		total += len(w) + 1
	}
	if len(part) > 0 {
		parts = append(parts, strings.Join(part, " "))
	}
	return parts
}

func isTerminator(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}
