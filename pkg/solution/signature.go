package solution

import (
	"fmt"
	"strings"

	"github.com/mini-maxit/judge/pkg/errors"
)

// Kind is the type of one parameter or of the return value of the entry point.
type Kind int

const (
	KindUnknown Kind = iota
	KindInt
	KindString
	KindIntList
	KindStringList
)

var kindNames = map[Kind]string{
	KindUnknown:    "unknown",
	KindInt:        "int",
	KindString:     "string",
	KindIntList:    "int[]",
	KindStringList: "string[]",
}

func (k Kind) String() string {
	return kindNames[k]
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for kind, kindName := range kindNames {
		if kindName == name {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("%w: unknown kind %q", errors.ErrInvalidSignature, name)
}

// Signature declares the entry point's ordered parameter kinds and its return kind.
type Signature struct {
	Params  []Kind `json:"params" toml:"params"`
	Returns Kind   `json:"returns" toml:"returns"`
}

func (s Signature) String() string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), s.Returns)
}
