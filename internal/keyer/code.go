// Package keyer turns text into timed Morse tones.
package keyer

import "unicode"

var codes = map[rune]string{
	'A': ".-", 'B': "-...", 'C': "-.-.", 'D': "-..", 'E': ".", 'F': "..-.",
	'G': "--.", 'H': "....", 'I': "..", 'J': ".---", 'K': "-.-", 'L': ".-..",
	'M': "--", 'N': "-.", 'O': "---", 'P': ".--.", 'Q': "--.-", 'R': ".-.",
	'S': "...", 'T': "-", 'U': "..-", 'V': "...-", 'W': ".--", 'X': "-..-",
	'Y': "-.--", 'Z': "--..",
	'0': "-----", '1': ".----", '2': "..---", '3': "...--", '4': "....-",
	'5': ".....", '6': "-....", '7': "--...", '8': "---..", '9': "----.",
	'.': ".-.-.-", ',': "--..--", '?': "..--..", '/': "-..-.", '=': "-...-",
	'+': ".-.-.", '-': "-....-", '\'': ".----.", '"': ".-..-.", '(': "-.--.",
	')': "-.--.-", ':': "---...", ';': "-.-.-.", '@': ".--.-.", '!': "-.-.--",
}

// Code returns the dot/dash pattern for r.
func Code(r rune) (string, bool) {
	code, ok := codes[unicode.ToUpper(r)]
	return code, ok
}
