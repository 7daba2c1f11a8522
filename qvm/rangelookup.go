package qvm

// rangeLookup implements the range-lookup algorithm shared by local
// variable resolution, DATA symbol resolution and BSS symbol
// resolution: entries whose starting address exactly equals the query
// are collected and returned joined by ", ", with no offset suffix.
// Otherwise, among the entries that merely contain the query, the one
// minimizing (q - start) wins; ties are broken by the smallest size.
//
// entries may contain multiple starting addresses, each with its own
// list of RangeLabel -- starts is aligned with labelLists so that
// starts[i] is the starting address for every label in labelLists[i].
func rangeLookup(starts []uint32, labelLists [][]RangeLabel, q uint32) (string, bool) {
	var exact []string

	var (
		haveMatch  bool
		matchDiff  uint32
		matchLabel string
		matchSize  uint32
	)

	for i, start := range starts {
		for _, rl := range labelLists[i] {
			if q == start {
				exact = append(exact, rl.Label)
				continue
			}
			if q >= start && q < start+rl.Size {
				diff := q - start
				switch {
				case !haveMatch:
					haveMatch, matchDiff, matchLabel, matchSize = true, diff, rl.Label, rl.Size
				case diff < matchDiff:
					matchDiff, matchLabel, matchSize = diff, rl.Label, rl.Size
				case diff == matchDiff && rl.Size < matchSize:
					matchLabel, matchSize = rl.Label, rl.Size
				}
			}
		}
	}

	if len(exact) > 0 {
		return joinComma(exact), true
	}
	if haveMatch {
		return formatOffsetLabel(matchLabel, matchDiff), true
	}
	return "", false
}

func joinComma(ss []string) string {
	out := ss[0]
	for _, s := range ss[1:] {
		out += ", " + s
	}
	return out
}

func formatOffsetLabel(label string, diff uint32) string {
	return label + " + " + hex32(diff)
}

func hex32(v uint32) string {
	const digits = "0123456789abcdef"
	if v == 0 {
		return "0x0"
	}
	var buf [8]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = digits[v&0xF]
		v >>= 4
	}
	return "0x" + string(buf[i:])
}

// lookupSymbolRange flattens an AnnotationStore range map into the
// parallel slices rangeLookup expects.
func lookupSymbolRange(m map[uint32][]RangeLabel, q uint32) (string, bool) {
	starts := make([]uint32, 0, len(m))
	lists := make([][]RangeLabel, 0, len(m))
	for start, labels := range m {
		starts = append(starts, start)
		lists = append(lists, labels)
	}
	return rangeLookup(starts, lists, q)
}
