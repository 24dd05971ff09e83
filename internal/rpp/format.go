package rpp

import (
	"fmt"
	"strings"
)

// Format is a supported preview audio format.
type Format string

const (
	FormatMP3 Format = "mp3"
	FormatWAV Format = "wav"
)

// Opaque RENDER_CFG payloads for each format at the engine's default quality.
// They are encoder presets copied from the engine, not values to compute.
const (
	// LAME MP3, 320 kbps CBR.
	CodecMP3 = "bDNwbUABAAABAAAABQAAAP////8EAAAAQAEAAAAAAAA="
	// PCM WAV, 24-bit.
	CodecWAV = "ZXZhdxgAAQ=="
)

var codecTokens = map[Format]string{
	FormatMP3: CodecMP3,
	FormatWAV: CodecWAV,
}

// Formats lists the supported formats in display order.
func Formats() []Format {
	return []Format{FormatMP3, FormatWAV}
}

// FormatNames returns the supported formats joined for help and error text.
func FormatNames(sep string) string {
	names := make([]string, 0, len(codecTokens))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, sep)
}

// ParseFormat converts user input into a Format.
func ParseFormat(value string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := codecTokens[f]; !ok {
		return "", fmt.Errorf("invalid value %q: must be one of %s", value, FormatNames(", "))
	}
	return f, nil
}

// Extension returns the output file extension without the leading dot.
func (f Format) Extension() string {
	return string(f)
}

// CodecToken returns the opaque RENDER_CFG payload for the format. Unknown
// formats fall back to MP3.
func (f Format) CodecToken() string {
	if token, ok := codecTokens[f]; ok {
		return token
	}
	return CodecMP3
}
