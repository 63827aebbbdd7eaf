package harness

import (
	"fmt"
	"strings"
)

const rustSupport = `
trait JudgeJson {
    fn judge_json(&self) -> String;
}

macro_rules! judge_json_display {
    ($($t:ty),*) => {
        $(impl JudgeJson for $t {
            fn judge_json(&self) -> String { format!("{}", self) }
        })*
    };
}

judge_json_display!(i8, i16, i32, i64, i128, isize, u8, u16, u32, u64, u128, usize, f32, f64, bool);

fn judge_quote(s: &str) -> String {
    let mut out = String::from("\"");
    for ch in s.chars() {
        match ch {
            '"' => out.push_str("\\\""),
            '\\' => out.push_str("\\\\"),
            '\n' => out.push_str("\\n"),
            '\r' => out.push_str("\\r"),
            '\t' => out.push_str("\\t"),
            c if (c as u32) < 0x20 => out.push_str(&format!("\\u{:04x}", c as u32)),
            c => out.push(c),
        }
    }
    out.push('"');
    out
}

impl JudgeJson for String {
    fn judge_json(&self) -> String { judge_quote(self) }
}

impl<'a> JudgeJson for &'a str {
    fn judge_json(&self) -> String { judge_quote(self) }
}

impl JudgeJson for char {
    fn judge_json(&self) -> String { judge_quote(&self.to_string()) }
}

impl JudgeJson for () {
    fn judge_json(&self) -> String { "null".to_string() }
}

impl<T: JudgeJson> JudgeJson for Vec<T> {
    fn judge_json(&self) -> String {
        let items: Vec<String> = self.iter().map(|x| x.judge_json()).collect();
        format!("[{}]", items.join(","))
    }
}

impl<T: JudgeJson> JudgeJson for Option<T> {
    fn judge_json(&self) -> String {
        match self {
            Some(v) => v.judge_json(),
            None => "null".to_string(),
        }
    }
}
`

const rustMain = `
fn main() {
    std::panic::set_hook(Box::new(|_| {}));
    let result = std::panic::catch_unwind(|| solve(%s));
    match result {
        Ok(ans) => println!("{{\"__result\":{}}}", ans.judge_json()),
        Err(payload) => {
            let msg = if let Some(s) = payload.downcast_ref::<&str>() {
                s.to_string()
            } else if let Some(s) = payload.downcast_ref::<String>() {
                s.clone()
            } else {
                "Runtime Error".to_string()
            };
            println!("{{\"__error\":{}}}", judge_quote(&msg));
        }
    }
}
`

func rustSource(userSource string, args []string) string {
	var b strings.Builder
	b.WriteString(userSource)
	b.WriteString("\n")
	b.WriteString(rustSupport)
	fmt.Fprintf(&b, rustMain, strings.Join(args, ", "))
	return b.String()
}
