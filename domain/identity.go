// Package domain contains core concepts of the chat system.
// This file defines Identity and room naming rules.
// No runtime, network, or UI logic should be added here.
package domain

import "strings"

// Identity is the authenticated username bound to a connection.
// It is established once at handshake time and never changes afterwards.
type Identity string

func (i Identity) String() string {
	return string(i)
}

// NormalizeRoom canonicalizes a room name. Two clients joining "General"
// and "general" must land in the same room.
func NormalizeRoom(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
