// Package keymap maps host keyboard keys to the CHIP-8 hexadecimal keypad.
//
// The conventional layout uses the left block of a QWERTY keyboard:
//
//	keypad     keyboard
//	1 2 3 C    1 2 3 4
//	4 5 6 D    Q W E R
//	7 8 9 E    A S D F
//	A 0 B F    Z X C V
package keymap

import "unicode"

// Layout contains the keyboard key for every keypad index.
var Layout = [16]rune{
	'x', '1', '2', '3',
	'q', 'w', 'e', 'a',
	's', 'd', 'z', 'c',
	'4', 'r', 'f', 'v',
}

// KeyForRune returns the keypad index of a keyboard key. Letters are
// matched case-insensitively.
func KeyForRune(r rune) (uint8, bool) {
	r = unicode.ToLower(r)
	for index, key := range Layout {
		if key == r {
			return uint8(index), true
		}
	}
	return 0, false
}
