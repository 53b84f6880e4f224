package pretty

import "fmt"

// Abbrev shortens s for log output. Strings longer than maxLen are cut to
// cutTo bytes and annotated with their full length.
func Abbrev(s string, maxLen, cutTo int) Abbreviated {
	if cutTo > maxLen {
		cutTo = maxLen
	}
	return Abbreviated{
		Original: s,
		MaxLen:   maxLen,
		CutTo:    cutTo,
	}
}

type Abbreviated struct {
	Original string
	MaxLen   int
	CutTo    int
}

func (s Abbreviated) String() string {
	if len(s.Original) > s.MaxLen {
		return fmt.Sprintf("%s… (%d bytes)", s.Original[:s.CutTo], len(s.Original))
	}
	return s.Original
}
