package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// Line statistics look at the first 5000 lines only so one huge sample
	// cannot dominate an ingest batch.
	maxProfiledLines = 5000
	// Character-class ratios are computed over a prefix window of the raw
	// sample, independent of the line cap.
	ratioWindowRunes = 200_000
)

// TextProfile is the structural fingerprint of a sampled object. Ratios are
// each in [0,1] and sum to 1: RatioSymbol is the complement of digit+alpha.
type TextProfile struct {
	LineCount    int64
	AvgLineLen   float64
	MaxLineLen   int64
	RatioDigit   float64
	RatioAlpha   float64
	RatioSymbol  float64
	HasCsvHeader bool
}

// ProfileText computes the profile of a text sample. It is total and
// deterministic: the empty string yields the zero profile, and the same
// input always produces the same output.
func ProfileText(s string) TextProfile {
	if s == "" {
		return TextProfile{}
	}

	lines := splitLines(s)
	ln := len(lines)
	if ln > maxProfiledLines {
		ln = maxProfiledLines
	}
	var sum, max int64
	for i := 0; i < ln; i++ {
		l := int64(utf8.RuneCountInString(lines[i]))
		sum += l
		if l > max {
			max = l
		}
	}
	var avg float64
	if ln > 0 {
		avg = float64(sum) / float64(ln)
	}

	var window, digits, alphas int
	for _, r := range s {
		if window == ratioWindowRunes {
			break
		}
		window++
		switch {
		case unicode.IsDigit(r):
			digits++
		case unicode.IsLetter(r):
			alphas++
		}
	}
	rd := float64(digits) / float64(window)
	ra := float64(alphas) / float64(window)
	rs := 1.0 - rd - ra
	if rs < 0 {
		rs = 0
	}

	return TextProfile{
		LineCount:    int64(ln),
		AvgLineLen:   avg,
		MaxLineLen:   max,
		RatioDigit:   rd,
		RatioAlpha:   ra,
		RatioSymbol:  rs,
		HasCsvHeader: ln > 0 && strings.Contains(lines[0], ","),
	}
}

// splitLines splits on any newline convention without producing a phantom
// empty line after a trailing terminator ("a\nb\n" is two lines).
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
