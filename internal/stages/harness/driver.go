package harness

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mini-maxit/judge/pkg/constants"
	"github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/languages"
	"github.com/mini-maxit/judge/pkg/solution"
)

// The user's code runs inside its own function scope. Its console.log output goes to stderr
// so stdout carries only the envelope.
const javascriptDriver = `(async () => {
  const emit = (o) => process.stdout.write(JSON.stringify(o) + "\n");
  try {
    const module = { exports: {} };
    const userConsole = Object.assign(Object.create(console), { log: console.error, info: console.error });
    const load = new Function("module", "exports", "require", "console",
      __SOURCE__ + "\n;return typeof __ENTRY__ === 'function' ? __ENTRY__ : undefined;");
    let fn = load(module, module.exports, require, userConsole);
    if (typeof fn !== "function" && module.exports && typeof module.exports.__ENTRY__ === "function") {
      fn = module.exports.__ENTRY__;
    }
    if (typeof fn !== "function") {
      emit({ __error: __MISSING__ });
      return;
    }
    const input = __INPUT__;
    const out = await fn.apply(null, Array.isArray(input) ? input : [input]);
    emit({ __result: out === undefined ? null : out });
  } catch (e) {
    emit({ __error: String(e instanceof Error ? e.message || e.name : e) });
  }
})();
`

const pythonDriver = `import contextlib
import json
import sys


def __judge_main():
    namespace = {"__name__": "__solution__", "__builtins__": __builtins__}
    try:
        with contextlib.redirect_stdout(sys.stderr):
            exec(compile(__SOURCE__, "<solution>", "exec"), namespace)
            fn = namespace.get(__ENTRY_NAME__)
            if not callable(fn):
                out = {"__error": __MISSING__}
            else:
                args = json.loads(__INPUT__)
                res = fn(*args) if isinstance(args, list) else fn(args)
                out = {"__result": res}
        line = json.dumps(out, allow_nan=False)
    except BaseException as e:
        line = json.dumps({"__error": str(e) or type(e).__name__})
    sys.stdout.write(line + "\n")
    sys.stdout.flush()


__judge_main()
`

// Driver returns the script that runs userSource against input in a fresh interpreter.
// Source and input are embedded as JSON string literals, which both interpreters accept.
func Driver(lang languages.LanguageType, userSource string, input solution.Value) (string, error) {
	inputJSON, err := json.Marshal(solution.Normalize(input))
	if err != nil {
		return "", fmt.Errorf("failed to encode test input: %w", err)
	}

	switch lang {
	case languages.JavaScript:
		return strings.NewReplacer(
			"__SOURCE__", jsonString(userSource),
			"__ENTRY__", constants.EntryPointName,
			"__MISSING__", jsonString(constants.OutcomeMessageMissingEntryPoint),
			"__INPUT__", string(inputJSON),
		).Replace(javascriptDriver), nil
	case languages.Python:
		return strings.NewReplacer(
			"__SOURCE__", jsonString(userSource),
			"__ENTRY_NAME__", jsonString(constants.EntryPointName),
			"__MISSING__", jsonString(constants.OutcomeMessageMissingEntryPoint),
			"__INPUT__", jsonString(string(inputJSON)),
		).Replace(pythonDriver), nil
	default:
		return "", fmt.Errorf("%w: %s", errors.ErrUnsupportedDriver, lang)
	}
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
