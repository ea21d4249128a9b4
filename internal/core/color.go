package core

// Color is the foreground of a screen cell, drawn from the board palette.
type Color uint8

// Board palette.
const (
	ColorDefault Color = iota
	ColorRed
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightCyan
	ColorOrange
	ColorPurple
	ColorPink
	ColorGray
	ColorDarkGray
	colorCount
)

// ansiCodes holds the 256-color code of each palette entry. "" is the
// terminal default.
var ansiCodes = [colorCount]string{
	ColorDefault:      "",
	ColorRed:          "1",
	ColorWhite:        "7",
	ColorBrightRed:    "9",
	ColorBrightGreen:  "10",
	ColorBrightYellow: "11",
	ColorBrightBlue:   "12",
	ColorBrightCyan:   "14",
	ColorOrange:       "208",
	ColorPurple:       "135",
	ColorPink:         "212",
	ColorGray:         "250",
	ColorDarkGray:     "240",
}

// ANSI returns the 256-color code for c, or "" for the terminal default.
func (c Color) ANSI() string {
	if c >= colorCount {
		return ""
	}
	return ansiCodes[c]
}

// Emphasized reports whether c is drawn bold. Gold and the final tile stand out.
func (c Color) Emphasized() bool {
	return c == ColorBrightYellow
}
