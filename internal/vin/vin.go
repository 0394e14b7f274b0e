// Package vin provides VIN normalization, the length/charset check required
// before a submission is persisted, and the model-year fallback decoded from
// the 10th VIN character.
package vin

import "strings"

// Length is the full VIN length required for persistence.
const Length = 17

// KnownMakes is the shop's usual clientele, offered as seed defaults when a
// decode returns a make outside the list. Advisory only, never validated
// against.
var KnownMakes = []string{"BMW", "MINI", "Audi", "Porsche", "Mercedes-Benz", "Volkswagen", "Volvo"}

// Normalize trims whitespace and uppercases v.
func Normalize(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

// Valid reports whether v is a normalized full-length VIN over the VIN
// charset (A-Z and 0-9, excluding I, O and Q). Check digits are not verified.
func Valid(v string) bool {
	if len(v) != Length {
		return false
	}
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'A' && c <= 'Z' && c != 'I' && c != 'O' && c != 'Q':
		default:
			return false
		}
	}
	return true
}

// Model-year codes repeat every 30 years. The modern cycle covers 2001-2030;
// vehicles older than that fall back to the 1980-2000 cycle.
var modernYearByCode = map[byte]int{
	'A': 2010, 'B': 2011, 'C': 2012, 'D': 2013, 'E': 2014, 'F': 2015, 'G': 2016, 'H': 2017,
	'J': 2018, 'K': 2019, 'L': 2020, 'M': 2021, 'N': 2022, 'P': 2023, 'R': 2024, 'S': 2025,
	'T': 2026, 'V': 2027, 'W': 2028, 'X': 2029, 'Y': 2030,
	'1': 2001, '2': 2002, '3': 2003, '4': 2004, '5': 2005, '6': 2006, '7': 2007, '8': 2008, '9': 2009,
}

var olderYearByCode = map[byte]int{
	'A': 1980, 'B': 1981, 'C': 1982, 'D': 1983, 'E': 1984, 'F': 1985, 'G': 1986, 'H': 1987,
	'J': 1988, 'K': 1989, 'L': 1990, 'M': 1991, 'N': 1992, 'P': 1993, 'R': 1994, 'S': 1995,
	'T': 1996, 'V': 1997, 'W': 1998, 'X': 1999, 'Y': 2000,
}

// ModelYear decodes a model year from the 10th VIN character, biased toward
// the modern cycle since the shop rarely sees pre-2001 vehicles. Returns
// (0, false) when the VIN is too short or the code is unrecognized.
func ModelYear(v string) (int, bool) {
	v = Normalize(v)
	if len(v) < 10 {
		return 0, false
	}
	c := v[9]
	if y, ok := modernYearByCode[c]; ok {
		return y, true
	}
	if y, ok := olderYearByCode[c]; ok {
		return y, true
	}
	return 0, false
}
