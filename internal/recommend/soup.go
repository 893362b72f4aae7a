// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package recommend

import "strings"

// Synthesize builds the text an item is embedded from: genres twice, then
// cast and crew, then the overview, joined by single spaces. Empty fields are
// kept so the layout does not depend on which attributes are present.
func Synthesize(it Item) string {
	var b strings.Builder
	b.Grow(2*len(it.Genres) + len(it.CastCrew) + len(it.Overview) + 3)
	b.WriteString(it.Genres)
	b.WriteByte(' ')
	b.WriteString(it.Genres)
	b.WriteByte(' ')
	b.WriteString(it.CastCrew)
	b.WriteByte(' ')
	b.WriteString(it.Overview)
	return b.String()
}

// SynthesizeAll maps Synthesize over items, preserving order.
func SynthesizeAll(items []Item) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = Synthesize(items[i])
	}
	return out
}
