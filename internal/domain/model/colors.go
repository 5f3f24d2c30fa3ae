package model

import "strings"

// fallbackColorHex is used for color names missing from the table.
const fallbackColorHex = "#808080"

// colorHexByName maps display color names to hex values for routes whose
// documents predate the colorHex field.
var colorHexByName = map[string]string{
	"red":    "#E53935",
	"blue":   "#1E88E5",
	"green":  "#43A047",
	"yellow": "#FDD835",
	"orange": "#FB8C00",
	"purple": "#8E24AA",
	"pink":   "#D81B60",
	"black":  "#212121",
	"white":  "#FAFAFA",
	"grey":   "#757575",
	"gray":   "#757575",
}

// ColorHexFor resolves a display color name to a hex value, falling back
// to a neutral grey for unknown names.
func ColorHexFor(name string) string {
	if hex, ok := colorHexByName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return hex
	}
	return fallbackColorHex
}
