package runner

import (
	"bytes"
	"testing"
)

// "中文" in GBK.
var gbkBytes = []byte{0xd6, 0xd0, 0xce, 0xc4}

func TestDecodeOutput_NilIsEmpty(t *testing.T) {
	if got := decodeOutput(nil, "", DecodeIgnore); got != "" {
		t.Errorf("decodeOutput(nil) = %q, want empty", got)
	}
}

func TestDecodeOutput_ValidUTF8(t *testing.T) {
	for _, policy := range []DecodePolicy{DecodeIgnore, DecodeReplace, DecodeStrict, ""} {
		if got := decodeOutput([]byte("hello 中文"), "utf-8", policy); got != "hello 中文" {
			t.Errorf("policy %q: got %q", policy, got)
		}
	}
}

func TestDecodeOutput_InvalidUTF8(t *testing.T) {
	data := []byte{'f', 0xff, 'o'}
	if got := decodeOutput(data, "", DecodeIgnore); got != "fo" {
		t.Errorf("ignore: got %q, want 'fo'", got)
	}
	if got := decodeOutput(data, "", DecodeReplace); got != "f�o" {
		t.Errorf("replace: got %q, want 'f�o'", got)
	}
	// Strict degrades to replacement instead of failing.
	if got := decodeOutput(data, "", DecodeStrict); got != "f�o" {
		t.Errorf("strict: got %q, want 'f�o'", got)
	}
}

func TestDecodeOutput_GBK(t *testing.T) {
	if got := decodeOutput(gbkBytes, "gbk", DecodeIgnore); got != "中文" {
		t.Errorf("got %q, want '中文'", got)
	}
}

func TestDecodeOutput_UnknownEncodingFallsBackToRaw(t *testing.T) {
	if got := decodeOutput([]byte("raw"), "no-such-encoding", DecodeIgnore); got != "raw" {
		t.Errorf("got %q, want raw bytes' string form", got)
	}
}

func TestEncodeInput_RoundTrip(t *testing.T) {
	encoded := encodeInput("中文", "gbk")
	if !bytes.Equal(encoded, gbkBytes) {
		t.Fatalf("encodeInput = %x, want %x", encoded, gbkBytes)
	}
	if got := decodeOutput(encoded, "gbk", DecodeIgnore); got != "中文" {
		t.Errorf("round trip = %q, want '中文'", got)
	}
}

func TestEncodeInput_DefaultUTF8(t *testing.T) {
	if got := encodeInput("plain", ""); string(got) != "plain" {
		t.Errorf("got %q, want 'plain'", got)
	}
}
