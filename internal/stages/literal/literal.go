// Package literal renders test values as source literals of the target languages.
//
// Only integers, strings and homogeneous sequences of either are representable in the
// compiled languages. Numbers are always truncated toward zero. Anything else degrades to
// the empty container of the target syntax instead of failing.
package literal

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/mini-maxit/judge/pkg/languages"
	"github.com/mini-maxit/judge/pkg/solution"
)

type shape int

const (
	shapeUnsupported shape = iota
	shapeInt
	shapeString
	shapeIntList
	shapeStringList
	shapeEmptyList
)

func classify(v solution.Value) shape {
	switch t := solution.Normalize(v).(type) {
	case float64:
		return shapeInt
	case string:
		return shapeString
	case []any:
		if len(t) == 0 {
			return shapeEmptyList
		}
		if allNumbers(t) {
			return shapeIntList
		}
		if allStrings(t) {
			return shapeStringList
		}
	}
	return shapeUnsupported
}

// IsNumber reports whether v is a scalar number.
func IsNumber(v solution.Value) bool {
	_, ok := solution.Normalize(v).(float64)
	return ok
}

// IsString reports whether v is a string.
func IsString(v solution.Value) bool {
	_, ok := solution.Normalize(v).(string)
	return ok
}

// IsIntSequence reports whether v is a sequence whose elements are all numbers. The empty
// sequence qualifies.
func IsIntSequence(v solution.Value) bool {
	seq, ok := solution.Normalize(v).([]any)
	return ok && allNumbers(seq)
}

func allNumbers(seq []any) bool {
	for _, e := range seq {
		if _, ok := e.(float64); !ok {
			return false
		}
	}
	return true
}

func allStrings(seq []any) bool {
	for _, e := range seq {
		if _, ok := e.(string); !ok {
			return false
		}
	}
	return true
}

// Encode renders v as a literal of the given language. It never fails.
func Encode(v solution.Value, lang languages.LanguageType) string {
	v = solution.Normalize(v)
	switch lang {
	case languages.JavaScript:
		return encodeJavaScript(v)
	case languages.Python:
		return encodePython(v)
	}

	switch classify(v) {
	case shapeInt:
		return Int(v.(float64))
	case shapeString:
		return quote(v.(string), lang)
	case shapeIntList, shapeStringList:
		return list(v.([]any), lang)
	default:
		return emptyContainer(lang, solution.KindUnknown)
	}
}

// EncodeAs renders v as a literal of the declared kind. A value that does not fit the kind
// renders as that kind's zero literal.
func EncodeAs(v solution.Value, kind solution.Kind, lang languages.LanguageType) string {
	if lang == languages.JavaScript || lang == languages.Python || kind == solution.KindUnknown {
		return Encode(v, lang)
	}

	v = solution.Normalize(v)
	s := classify(v)
	switch kind {
	case solution.KindInt:
		if s == shapeInt {
			return Int(v.(float64))
		}
		return "0"
	case solution.KindString:
		if s == shapeString {
			return quote(v.(string), lang)
		}
		return emptyContainer(lang, kind)
	case solution.KindIntList:
		if s == shapeIntList {
			return typedList(v.([]any), kind, lang)
		}
		return emptyContainer(lang, kind)
	case solution.KindStringList:
		if s == shapeStringList {
			return typedList(v.([]any), kind, lang)
		}
		return emptyContainer(lang, kind)
	}
	return Encode(v, lang)
}

// Int truncates f toward zero. NaN and infinities become 0.
func Int(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "0"
	}
	t := math.Trunc(f)
	if t == 0 {
		return "0"
	}
	return strconv.FormatFloat(t, 'f', -1, 64)
}

func quote(s string, lang languages.LanguageType) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				if lang == languages.Rust {
					fmt.Fprintf(&b, `\u{%x}`, r)
				} else {
					fmt.Fprintf(&b, `\%03o`, r)
				}
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	if lang == languages.Rust {
		b.WriteString(".to_string()")
	}
	return b.String()
}

func elements(seq []any, lang languages.LanguageType) []string {
	out := make([]string, len(seq))
	for i, e := range seq {
		if f, ok := e.(float64); ok {
			out[i] = Int(f)
		} else {
			out[i] = quote(e.(string), lang)
		}
	}
	return out
}

func list(seq []any, lang languages.LanguageType) string {
	items := strings.Join(elements(seq, lang), ", ")
	switch lang {
	case languages.CPP:
		return "{ " + items + " }"
	case languages.Java:
		if allNumbers(seq) {
			return "new int[]{ " + items + " }"
		}
		return "java.util.Arrays.asList(" + items + ")"
	case languages.Rust:
		return "vec![" + items + "]"
	}
	return emptyContainer(lang, solution.KindUnknown)
}

func typedList(seq []any, kind solution.Kind, lang languages.LanguageType) string {
	if lang == languages.CPP {
		return CppType(kind) + list(seq, lang)
	}
	return list(seq, lang)
}

// CppType is the C++ type spelled for kind, or "" when a bare literal already has the right type.
func CppType(kind solution.Kind) string {
	switch kind {
	case solution.KindIntList:
		return "vector<int>"
	case solution.KindStringList:
		return "vector<string>"
	case solution.KindString:
		return "string"
	default:
		return ""
	}
}

// emptyContainer is the literal used for values the encoder cannot represent.
func emptyContainer(lang languages.LanguageType, kind solution.Kind) string {
	switch lang {
	case languages.CPP:
		return CppType(kind) + "{}"
	case languages.Java:
		switch kind {
		case solution.KindString:
			return `""`
		case solution.KindIntList:
			return "new int[]{}"
		case solution.KindStringList:
			return "new java.util.ArrayList<String>()"
		}
		return "null"
	case languages.Rust:
		switch kind {
		case solution.KindString:
			return "String::new()"
		case solution.KindIntList:
			return "Vec::<i32>::new()"
		case solution.KindStringList:
			return "Vec::<String>::new()"
		}
		return "Default::default()"
	case languages.JavaScript:
		return "[]"
	case languages.Python:
		return "[]"
	}
	return "{}"
}

func encodeJavaScript(v solution.Value) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func encodePython(v solution.Value) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case bool:
		if t {
			return "True"
		}
		return "False"
	case float64:
		if math.IsNaN(t) {
			return `float("nan")`
		}
		if math.IsInf(t, 0) {
			if t > 0 {
				return `float("inf")`
			}
			return `float("-inf")`
		}
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatFloat(t, 'f', -1, 64)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case string:
		b, _ := json.Marshal(t)
		return string(b)
	case []any:
		items := make([]string, len(t))
		for i, e := range t {
			items[i] = encodePython(e)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		items := make([]string, len(keys))
		for i, k := range keys {
			items[i] = encodePython(k) + ": " + encodePython(t[k])
		}
		return "{" + strings.Join(items, ", ") + "}"
	}
	return "None"
}
