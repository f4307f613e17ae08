package sevseg

import "fmt"

// patterns maps digit values 0-9 to segment bit patterns, one bit per
// LED segment (a through g, LSB first).
var patterns = [10]byte{
	0x3F, // 0
	0x06, // 1
	0x5B, // 2
	0x4F, // 3
	0x66, // 4
	0x6D, // 5
	0x7D, // 6
	0x07, // 7
	0x7F, // 8
	0x67, // 9
}

// Encode returns the segment pattern for a decimal digit.
func Encode(digit uint8) (byte, error) {
	if digit > 9 {
		return 0, fmt.Errorf("digit out of range: %d", digit)
	}
	return patterns[digit], nil
}

// Decode returns the digit whose pattern matches, or false if the
// pattern is not one of the ten digit patterns.
func Decode(pattern byte) (uint8, bool) {
	for d, p := range patterns {
		if p == pattern {
			return uint8(d), true
		}
	}
	return 0, false
}

// Split separates a two-digit display value into its ones and tens
// digits.
func Split(value uint8) (ones, tens uint8) {
	return value % 10, value / 10
}

// EncodeValue returns the segment patterns for both digits of a
// two-digit display value.
func EncodeValue(value uint8) (ones, tens byte, err error) {
	if value > 99 {
		return 0, 0, fmt.Errorf("display value out of range: %d", value)
	}
	od, td := Split(value)
	ones, _ = Encode(od)
	tens, _ = Encode(td)
	return ones, tens, nil
}

// PressedDigit implements the polled button-to-digit exercise: given
// the eight active-low input lines of a port, it returns the digit for
// the highest pressed line (line i shows digit i+1), or 0 when no line
// is pressed.
func PressedDigit(lines byte) uint8 {
	var digit uint8
	for i := uint8(0); i < 8; i++ {
		if lines&(1<<i) == 0 {
			digit = i + 1
		}
	}
	return digit
}
