package runner

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// DecodePolicy controls how undecodable bytes in captured output are
// handled.
type DecodePolicy string

const (
	// DecodeIgnore drops undecodable bytes. The default.
	DecodeIgnore DecodePolicy = "ignore"
	// DecodeReplace substitutes U+FFFD for undecodable bytes.
	DecodeReplace DecodePolicy = "replace"
	// DecodeStrict degrades to DecodeReplace on undecodable input.
	// Decoding may never fail the call, so strict cannot reject.
	DecodeStrict DecodePolicy = "strict"
)

const replacementChar = "�"

// lookupEncoding resolves an IANA encoding name. UTF-8 and the empty
// name resolve to a nil Encoding, meaning Go-native handling.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		// Registered with IANA but not carried by x/text.
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

// decodeOutput turns captured output bytes into text. It never fails:
// an unresolvable encoding name or a decoder error falls back to the raw
// bytes' string form, and policy handling falls back to replacement.
// Nil input decodes to the empty string.
func decodeOutput(data []byte, encodingName string, policy DecodePolicy) string {
	if data == nil {
		return ""
	}
	enc, err := lookupEncoding(encodingName)
	if err != nil {
		return string(data)
	}

	if enc == nil {
		if utf8.Valid(data) {
			return string(data)
		}
		if policy == DecodeIgnore || policy == "" {
			return strings.ToValidUTF8(string(data), "")
		}
		return strings.ToValidUTF8(string(data), replacementChar)
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	s := string(decoded)
	if policy == DecodeIgnore || policy == "" {
		// x/text decoders substitute U+FFFD for invalid input.
		s = strings.ReplaceAll(s, replacementChar, "")
	}
	return s
}

// encodeInput converts stdin text to bytes using the invocation
// encoding. An unresolvable encoding or encoder error falls back to the
// text's UTF-8 bytes.
func encodeInput(text, encodingName string) []byte {
	enc, err := lookupEncoding(encodingName)
	if err != nil || enc == nil {
		return []byte(text)
	}
	encoded, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return []byte(text)
	}
	return encoded
}
