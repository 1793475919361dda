package telnet

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// GMCPMessage is a decoded "<MessageType> <json-body>" subnegotiation.
type GMCPMessage struct {
	Type string
	Body string
}

// ParseGMCP splits a GMCP subnegotiation payload on the first space.
// A single-token payload (no space) yields an empty body rather than
// the panic the original client's receive_gmcp would hit on that input.
// Non-UTF-8 payloads are rejected.
func ParseGMCP(payload []byte) (GMCPMessage, error) {
	if !utf8.Valid(payload) {
		return GMCPMessage{}, fmt.Errorf("gmcp: payload is not valid UTF-8")
	}

	s := string(payload)
	if idx := strings.IndexByte(s, ' '); idx >= 0 {
		return GMCPMessage{Type: s[:idx], Body: s[idx+1:]}, nil
	}
	if s == "" {
		return GMCPMessage{}, fmt.Errorf("gmcp: empty payload")
	}
	return GMCPMessage{Type: s, Body: ""}, nil
}

// EncodeGMCP builds the "<Type> <body>" wire form for an outbound message.
func EncodeGMCP(msgType, body string) []byte {
	if body == "" {
		return []byte(msgType)
	}
	return []byte(msgType + " " + body)
}
