package harness

import (
	"fmt"
	"strings"

	"github.com/mini-maxit/judge/internal/stages/literal"
	"github.com/mini-maxit/judge/pkg/solution"
)

const cppPrelude = `#include <algorithm>
#include <climits>
#include <cstdint>
#include <cstdio>
#include <deque>
#include <exception>
#include <iostream>
#include <map>
#include <numeric>
#include <queue>
#include <set>
#include <sstream>
#include <stack>
#include <stdexcept>
#include <string>
#include <type_traits>
#include <unordered_map>
#include <unordered_set>
#include <vector>
using namespace std;
`

const cppPrinters = `
static void judge_print_json(ostream& o, const string& s) {
    o << '"';
    for (unsigned char c : s) {
        switch (c) {
        case '\\': o << "\\\\"; break;
        case '"': o << "\\\""; break;
        case '\n': o << "\\n"; break;
        case '\r': o << "\\r"; break;
        case '\t': o << "\\t"; break;
        default:
            if (c < 0x20) {
                char buf[8];
                snprintf(buf, sizeof buf, "\\u%04x", c);
                o << buf;
            } else {
                o << c;
            }
        }
    }
    o << '"';
}
static void judge_print_json(ostream& o, const char* s) { judge_print_json(o, string(s)); }
static void judge_print_json(ostream& o, char c) { judge_print_json(o, string(1, c)); }
static void judge_print_json(ostream& o, bool b) { o << (b ? "true" : "false"); }
template <typename T>
static typename enable_if<is_arithmetic<T>::value>::type judge_print_json(ostream& o, T v) { o << v; }
template <typename T>
static void judge_print_json(ostream& o, const vector<T>& a) {
    o << '[';
    for (size_t i = 0; i < a.size(); ++i) {
        if (i) o << ',';
        judge_print_json(o, a[i]);
    }
    o << ']';
}
`

const cppMain = `
int main() {
    ostringstream judge_out;
    try {
%s        auto ans = solve(%s);
        judge_out << "{\"__result\":";
        judge_print_json(judge_out, ans);
        judge_out << "}";
    } catch (const exception& e) {
        judge_out.str("");
        judge_out << "{\"__error\":";
        judge_print_json(judge_out, string(e.what()));
        judge_out << "}";
    } catch (...) {
        judge_out.str("");
        judge_out << "{\"__error\":\"Runtime Error\"}";
    }
    cout << judge_out.str() << endl;
    return 0;
}
`

// cppSource binds every argument to a local first so that solve may take its parameters by
// non-const reference. Values of unknown kind are passed inline.
func cppSource(userSource string, args []string, kinds []solution.Kind) string {
	var bindings strings.Builder
	names := make([]string, len(args))
	for i, arg := range args {
		if i >= len(kinds) || kinds[i] == solution.KindUnknown {
			names[i] = arg
			continue
		}
		typ := literal.CppType(kinds[i])
		if typ == "" {
			typ = "auto"
		}
		names[i] = fmt.Sprintf("judge_arg%d", i)
		fmt.Fprintf(&bindings, "        %s %s = %s;\n", typ, names[i], arg)
	}

	var b strings.Builder
	b.WriteString(cppPrelude)
	b.WriteString(userSource)
	b.WriteString("\n")
	b.WriteString(cppPrinters)
	fmt.Fprintf(&b, cppMain, bindings.String(), strings.Join(names, ", "))
	return b.String()
}
