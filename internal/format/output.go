package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Format names a CLI output encoding.
type Format string

const (
	JSON Format = "json"
	EDN  Format = "edn"
)

// ParseFormat accepts json (the default for "") and edn, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", JSON:
		return JSON, nil
	case EDN:
		return EDN, nil
	default:
		return "", fmt.Errorf("unknown format: %s (want json|edn)", s)
	}
}

// Write writes v in the requested format followed by a newline.
func Write(w io.Writer, v any, format string, pretty bool) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}
	if f == EDN {
		return WriteEDN(w, v, pretty)
	}
	return WriteJSON(w, v, pretty)
}

// WriteJSON writes strict JSON. HTML escaping is off so titles print as typed.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
