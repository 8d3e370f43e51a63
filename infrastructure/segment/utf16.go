package segment

// UTF16Length returns the length of s in UTF-16 code units: scalars above
// the Basic Multilingual Plane occupy a surrogate pair of two units.
func UTF16Length(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
			continue
		}
		n++
	}
	return n
}

// ByteOffset maps a UTF-16 code-unit offset into s to the byte offset of
// the same position. An offset landing between the two units of a surrogate
// pair floors to the scalar's start; Go strings cannot address half a
// scalar. Offsets outside [0, UTF16Length(s)] return ErrOffsetRange.
func ByteOffset(s string, offset int) (int, error) {
	if offset < 0 {
		return 0, ErrOffsetRange
	}
	units := 0
	for i, r := range s {
		if units == offset {
			return i, nil
		}
		if r >= 0x10000 {
			if offset == units+1 {
				return i, nil
			}
			units += 2
			continue
		}
		units++
	}
	if offset == units {
		return len(s), nil
	}
	return 0, ErrOffsetRange
}
