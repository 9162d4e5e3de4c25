package ansiterm

import (
	"github.com/charmbracelet/x/ansi"
)

// Style is an SGR parameter; values are the fixed ECMA-48 code table
type Style int

const (
	StyleNone                        Style = 0
	StyleBold                        Style = 1
	StyleFaint                       Style = 2
	StyleItalic                      Style = 3
	StyleUnderline                   Style = 4
	StyleSlowBlink                   Style = 5
	StyleFastBlink                   Style = 6
	StyleInvert                      Style = 7
	StyleHide                        Style = 8
	StyleCrossedOut                  Style = 9
	StylePrimaryFont                 Style = 10
	StyleAlternativeFont             Style = 11
	StyleFraktur                     Style = 20
	StyleDoublyUnderlined            Style = 21
	StyleNormalIntensity             Style = 22
	StyleNeitherItalicNorBlackletter Style = 23
	StyleNotUnderlined               Style = 24
	StyleNotBlinking                 Style = 25
	StyleProportionalSpacing         Style = 26
	StyleNotReversed                 Style = 27
	StyleReveal                      Style = 28
	StyleNotCrossedOut               Style = 29
	StyleSetForegroundColor          Style = 30
	StyleSetForegroundColor8bit      Style = 38
	StyleDefaultForegroundColor      Style = 39
	StyleSetBackgroundColor          Style = 40
	StyleSetBackgroundColor8bit      Style = 48
	StyleDefaultBackgroundColor      Style = 49
	StyleDisableProportionalSpacing  Style = 50
	StyleFramed                      Style = 51
	StyleEncircled                   Style = 52
	StyleOverlined                   Style = 53
	StyleNeitherFramedNorEncircled   Style = 54
	StyleNotOverlined                Style = 55
	StyleSetUnderlineColor           Style = 58
	StyleDefaultUnderlineColor       Style = 59
	StyleIdeogramUnderline           Style = 60
	StyleIdeogramDoubleUnderline     Style = 61
	StyleIdeogramOverline            Style = 62
	StyleIdeogramDoubleOverline      Style = 63
	StyleIdeogramStressMarking       Style = 64
	StyleNoIdeogramAttributes        Style = 65
	StyleSuperscript                 Style = 73
	StyleSubscript                   Style = 74
	StyleNeitherSuperscriptNorSub    Style = 75
	StyleSetBrightForegroundColor    Style = 90
	StyleSetBrightBackgroundColor    Style = 100
)

var styleNames = map[string]Style{
	"none":        StyleNone,
	"bold":        StyleBold,
	"faint":       StyleFaint,
	"italic":      StyleItalic,
	"underline":   StyleUnderline,
	"blink":       StyleSlowBlink,
	"invert":      StyleInvert,
	"hide":        StyleHide,
	"crossed-out": StyleCrossedOut,
	"overlined":   StyleOverlined,
	"framed":      StyleFramed,
	"encircled":   StyleEncircled,
}

// ParseStyle resolves a style by name, used by scene files
func ParseStyle(name string) (Style, bool) {
	s, ok := styleNames[name]
	return s, ok
}

// Code returns the SGR parameter
func (s Style) Code() int {
	return int(s)
}

// Sequence returns the escape ESC[<code>m
func (s Style) Sequence() string {
	return ansi.SGR(int(s))
}
