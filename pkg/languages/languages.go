package languages

import (
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/mini-maxit/judge/pkg/errors"
)

type LanguageType int

const (
	JavaScript LanguageType = iota + 1
	Python
	CPP
	Java
	Rust
)

// Strategy tags how a language is executed.
type Strategy int

const (
	StrategyLocal Strategy = iota + 1
	StrategyRemote
)

func (s Strategy) String() string {
	switch s {
	case StrategyLocal:
		return "local"
	case StrategyRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// LanguageSpec is one row of the language table.
type LanguageSpec struct {
	Name     string
	Aliases  []string
	Strategy Strategy

	// Remote compile-and-run service.
	RemoteName    string
	CatalogNames  mapset.Set[string]
	VersionEnvKey string

	// Local interpreter. ImageInterpreter is the binary inside RuntimeImage.
	InterpreterFlag  string
	RuntimeImage     string
	ImageInterpreter string
}

var languageTable = map[LanguageType]LanguageSpec{
	JavaScript: {
		Name:             "javascript",
		Aliases:          []string{"js", "node", "nodejs"},
		Strategy:         StrategyLocal,
		InterpreterFlag:  "-e",
		RuntimeImage:     "node:20-alpine",
		ImageInterpreter: "node",
	},
	Python: {
		Name:             "python",
		Aliases:          []string{"py", "python3"},
		Strategy:         StrategyLocal,
		InterpreterFlag:  "-c",
		RuntimeImage:     "python:3.12-alpine",
		ImageInterpreter: "python3",
	},
	CPP: {
		Name:          "cpp",
		Aliases:       []string{"c++", "cxx"},
		Strategy:      StrategyRemote,
		RemoteName:    "c++",
		CatalogNames:  mapset.NewSet("c++", "cpp", "gcc"),
		VersionEnvKey: "PISTON_CPP_VERSION",
	},
	Java: {
		Name:          "java",
		Strategy:      StrategyRemote,
		RemoteName:    "java",
		CatalogNames:  mapset.NewSet("java"),
		VersionEnvKey: "PISTON_JAVA_VERSION",
	},
	Rust: {
		Name:          "rust",
		Aliases:       []string{"rs"},
		Strategy:      StrategyRemote,
		RemoteName:    "rust",
		CatalogNames:  mapset.NewSet("rust"),
		VersionEnvKey: "PISTON_RUST_VERSION",
	},
}

var languageTypeMap = buildLanguageTypeMap()

func buildLanguageTypeMap() map[string]LanguageType {
	m := make(map[string]LanguageType)
	for lt, spec := range languageTable {
		m[spec.Name] = lt
		for _, alias := range spec.Aliases {
			m[alias] = lt
		}
	}
	return m
}

func (lt LanguageType) String() string {
	if spec, ok := languageTable[lt]; ok {
		return spec.Name
	}
	return ""
}

// Spec returns the table row for the language.
func (lt LanguageType) Spec() (LanguageSpec, error) {
	spec, ok := languageTable[lt]
	if !ok {
		return LanguageSpec{}, errors.ErrInvalidLanguageType
	}
	return spec, nil
}

func (lt LanguageType) Strategy() Strategy {
	return languageTable[lt].Strategy
}

func (lt LanguageType) MarshalText() ([]byte, error) {
	if _, ok := languageTable[lt]; !ok {
		return nil, errors.ErrInvalidLanguageType
	}
	return []byte(lt.String()), nil
}

func (lt *LanguageType) UnmarshalText(text []byte) error {
	parsed, err := ParseLanguageType(string(text))
	if err != nil {
		return err
	}
	*lt = parsed
	return nil
}

func ParseLanguageType(s string) (LanguageType, error) {
	if lt, ok := languageTypeMap[strings.ToLower(strings.TrimSpace(s))]; ok {
		return lt, nil
	}
	return 0, errors.ErrInvalidLanguageType
}

// GetRemoteLanguages returns the languages executed by the remote service, in table order.
func GetRemoteLanguages() []LanguageType {
	var remote []LanguageType
	for _, lt := range allLanguages() {
		if languageTable[lt].Strategy == StrategyRemote {
			remote = append(remote, lt)
		}
	}
	return remote
}

type LanguageInfo struct {
	Name     string `json:"name"`
	Strategy string `json:"strategy"`
	Version  string `json:"version,omitempty"`
}

// GetSupportedLanguages lists every language; versions are filled from resolved, when present.
func GetSupportedLanguages(resolved map[LanguageType]string) []LanguageInfo {
	infos := make([]LanguageInfo, 0, len(languageTable))
	for _, lt := range allLanguages() {
		spec := languageTable[lt]
		infos = append(infos, LanguageInfo{
			Name:     spec.Name,
			Strategy: spec.Strategy.String(),
			Version:  resolved[lt],
		})
	}
	return infos
}

func allLanguages() []LanguageType {
	all := make([]LanguageType, 0, len(languageTable))
	for lt := range languageTable {
		all = append(all, lt)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return all
}
