// Package harness turns a user's function into a runnable program that prints exactly one
// result envelope line.
package harness

import (
	"fmt"

	"github.com/mini-maxit/judge/internal/stages/literal"
	"github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/languages"
	"github.com/mini-maxit/judge/pkg/solution"
)

// File is one named source unit sent to the compile-and-run service.
type File struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// DetectSignature guesses the entry point signature from the shape of a test input. It only
// knows the shapes the bundled problems use:
//
//	(int[], int) -> int[]
//	(string)     -> string
//	(int)        -> string[]
//
// Anything else is passed through as a single argument of unknown kind returning a string.
func DetectSignature(input solution.Value) solution.Signature {
	args := solution.Args(input)
	switch {
	case len(args) == 2 && literal.IsIntSequence(args[0]) && literal.IsNumber(args[1]):
		return solution.Signature{
			Params:  []solution.Kind{solution.KindIntList, solution.KindInt},
			Returns: solution.KindIntList,
		}
	case len(args) == 1 && literal.IsString(args[0]):
		return solution.Signature{
			Params:  []solution.Kind{solution.KindString},
			Returns: solution.KindString,
		}
	case len(args) == 1 && literal.IsNumber(args[0]):
		return solution.Signature{
			Params:  []solution.Kind{solution.KindInt},
			Returns: solution.KindStringList,
		}
	default:
		return solution.Signature{
			Params:  []solution.Kind{solution.KindUnknown},
			Returns: solution.KindString,
		}
	}
}

// CallArgs splits a test input into the positional arguments expected by sig.
// A single-parameter signature receives the whole input when it is not a one-element tuple.
func CallArgs(input solution.Value, sig solution.Signature) ([]solution.Value, error) {
	args := solution.Args(input)
	if len(args) == len(sig.Params) {
		return args, nil
	}
	if len(sig.Params) == 1 {
		return []solution.Value{solution.Normalize(input)}, nil
	}
	return nil, fmt.Errorf("%w: %s expects %d arguments, input has %d",
		errors.ErrInvalidSignature, sig, len(sig.Params), len(args))
}

// ResolveSignature returns declared when set, otherwise the signature detected from input.
func ResolveSignature(declared *solution.Signature, input solution.Value) solution.Signature {
	if declared != nil && len(declared.Params) > 0 {
		return *declared
	}
	return DetectSignature(input)
}

// Synthesize builds the complete program for one test of a compiled language.
func Synthesize(
	lang languages.LanguageType,
	userSource string,
	input solution.Value,
	declared *solution.Signature,
) ([]File, error) {
	sig := ResolveSignature(declared, input)
	args, err := CallArgs(input, sig)
	if err != nil {
		return nil, err
	}

	encoded := make([]string, len(args))
	for i, arg := range args {
		encoded[i] = literal.EncodeAs(arg, sig.Params[i], lang)
	}

	switch lang {
	case languages.CPP:
		return []File{{Name: "main.cpp", Content: cppSource(userSource, encoded, sig.Params)}}, nil
	case languages.Java:
		return javaFiles(userSource, encoded), nil
	case languages.Rust:
		return []File{{Name: "main.rs", Content: rustSource(userSource, encoded)}}, nil
	default:
		return nil, fmt.Errorf("%w: %s", errors.ErrUnsupportedHarness, lang)
	}
}
