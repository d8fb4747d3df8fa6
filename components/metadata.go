package components

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned for a kind name that matches no Kind.
var ErrUnknownKind = errors.New("unknown body kind")

// String returns the display name for a Kind.
func (k Kind) String() string {
	names := KindNames()
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// KindNames returns the names for all kinds.
// The order matches the Kind constants.
func KindNames() []string {
	return []string{"plain", "lethal", "finish", "teleport", "controllable"}
}

// ParseKind returns the Kind with the given name. An empty name is plain.
func ParseKind(name string) (Kind, error) {
	if name == "" {
		return KindPlain, nil
	}
	for i, n := range KindNames() {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownKind, name)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
