package transport

import (
	"bytes"
	"fmt"
	"strings"
)

// Hash is a fixed-width opaque segment identifier. Equality is bytewise.
type Hash [HashSize]byte

// ParseHash validates and converts a 32-byte printable payload into a Hash.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if len(s) != HashSize {
		return h, fmt.Errorf("hash must be exactly %d bytes, got %d", HashSize, len(s))
	}
	copy(h[:], s)
	return h, nil
}

// String renders the hash back to its printable payload.
func (h Hash) String() string {
	return string(h[:])
}

type payloadKind int

const (
	kindKeyword payloadKind = iota
	kindFileName
	kindHash
	kindInt
)

// Message is the payload carried by a single Send/Recv call. Keyword,
// FileName, and Hash payloads are encoded into fixed-width byte buffers
// matching the protocol constants, the same widths the messages would
// occupy on a byte-oriented transport; Int payloads carry a typed integer,
// as the reference protocol does for counts and identifiers.
type Message struct {
	raw  []byte
	ival int
	kind payloadKind
}

// KeywordMessage encodes a control keyword, space-padded to MessageSize.
// Callers only ever pass the fixed keyword constants, so an oversized
// keyword indicates a programming error.
func KeywordMessage(word string) Message {
	if len(word) > MessageSize {
		panic(fmt.Sprintf("transport: keyword %q exceeds MESSAGE_SIZE", word))
	}
	buf := make([]byte, MessageSize)
	for i := range buf {
		buf[i] = ' '
	}
	copy(buf, word)
	return Message{raw: buf, kind: kindKeyword}
}

// Keyword decodes a keyword payload, trimming its padding.
func (m Message) Keyword() string {
	return strings.TrimRight(string(m.raw), " ")
}

// FileNameMessage encodes a file name into a null-terminated, fixed-width
// buffer. Names longer than MaxFileName-1 bytes (the null terminator needs
// the last slot) are rejected, matching the "at most 14 printable
// characters" bound in the external interfaces section.
func FileNameMessage(name string) (Message, error) {
	if len(name) > MaxFileName-1 {
		return Message{}, fmt.Errorf("file name %q exceeds %d characters", name, MaxFileName-1)
	}
	buf := make([]byte, MaxFileName)
	copy(buf, name)
	return Message{raw: buf, kind: kindFileName}, nil
}

// FileName decodes a file name payload, stopping at the null terminator.
func (m Message) FileName() string {
	n := bytes.IndexByte(m.raw, 0)
	if n < 0 {
		n = len(m.raw)
	}
	return string(m.raw[:n])
}

// HashMessage encodes a segment hash.
func HashMessage(h Hash) Message {
	buf := make([]byte, HashSize)
	copy(buf, h[:])
	return Message{raw: buf, kind: kindHash}
}

// Hash decodes a segment hash payload.
func (m Message) Hash() Hash {
	var h Hash
	copy(h[:], m.raw)
	return h
}

// IntMessage encodes a typed integer (counts, segment totals, peer ranks).
func IntMessage(v int) Message {
	return Message{ival: v, kind: kindInt}
}

// Int decodes an integer payload.
func (m Message) Int() int {
	return m.ival
}
