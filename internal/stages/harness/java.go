package harness

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	javaSolutionClass = regexp.MustCompile(`\bclass\s+Solution\b`)
	javaImportLine    = regexp.MustCompile(`^\s*import\s+(static\s+)?[\w.]+(\.\*)?\s*;\s*$`)
)

const javaMain = `import java.util.*;

public class Main {
    private static String quote(String s) {
        StringBuilder sb = new StringBuilder("\"");
        for (char c : s.toCharArray()) {
            switch (c) {
                case '\\': sb.append("\\\\"); break;
                case '"': sb.append("\\\""); break;
                case '\n': sb.append("\\n"); break;
                case '\r': sb.append("\\r"); break;
                case '\t': sb.append("\\t"); break;
                default:
                    if (c < 0x20) {
                        sb.append(String.format("\\u%%04x", (int) c));
                    } else {
                        sb.append(c);
                    }
            }
        }
        return sb.append('"').toString();
    }

    private static String json(Object v) {
        if (v == null) return "null";
        if (v instanceof String) return quote((String) v);
        if (v instanceof Character) return quote(String.valueOf(v));
        if (v instanceof Boolean || v instanceof Number) return String.valueOf(v);
        StringBuilder sb = new StringBuilder("[");
        if (v.getClass().isArray()) {
            int n = java.lang.reflect.Array.getLength(v);
            for (int i = 0; i < n; i++) {
                if (i > 0) sb.append(',');
                sb.append(json(java.lang.reflect.Array.get(v, i)));
            }
            return sb.append(']').toString();
        }
        if (v instanceof Iterable) {
            boolean first = true;
            for (Object x : (Iterable<?>) v) {
                if (!first) sb.append(',');
                sb.append(json(x));
                first = false;
            }
            return sb.append(']').toString();
        }
        return quote(v.toString());
    }

    public static void main(String[] args) {
        String out;
        try {
            Object ans = new Solution().solve(%s);
            out = "{\"__result\":" + json(ans) + "}";
        } catch (Throwable e) {
            out = "{\"__error\":" + quote(String.valueOf(e)) + "}";
        }
        System.out.println(out);
    }
}
`

func javaFiles(userSource string, args []string) []File {
	return []File{
		{Name: "Solution.java", Content: javaSolution(userSource)},
		{Name: "Main.java", Content: fmt.Sprintf(javaMain, strings.Join(args, ", "))},
	}
}

// javaSolution returns the user's code as a compilable Solution class. A bare method body is
// wrapped into the class, with its import lines hoisted above it.
func javaSolution(userSource string) string {
	if javaSolutionClass.MatchString(userSource) {
		return userSource
	}

	imports := []string{"import java.util.*;"}
	var body []string
	for _, line := range strings.Split(userSource, "\n") {
		if javaImportLine.MatchString(line) {
			imports = append(imports, strings.TrimSpace(line))
			continue
		}
		body = append(body, line)
	}

	var b strings.Builder
	b.WriteString(strings.Join(imports, "\n"))
	b.WriteString("\n\npublic class Solution {\n")
	b.WriteString(strings.Join(body, "\n"))
	b.WriteString("\n}\n")
	return b.String()
}
