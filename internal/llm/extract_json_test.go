package llm

import "testing"

func TestFirstJSONObject(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`},
		{"prose around", `Berikut hasilnya: {"a":1} semoga membantu {"b":2}`, `{"a":1}`},
		{"brace in string", `{"nama":"Jl. {Asri}","x":"}"}`, `{"nama":"Jl. {Asri}","x":"}"}`},
		{"escaped quote", `{"nama":"a\"}b"}`, `{"nama":"a\"}b"}`},
		{"unbalanced then balanced", `{ oops {"a":1}`, `{"a":1}`},
		{"none", "tidak ada json", ""},
		{"never closes", `{"a":1`, ""},
	}
	for _, c := range cases {
		if got := FirstJSONObject(c.in); got != c.want {
			t.Errorf("%s: FirstJSONObject(%q) = %q, want %q", c.name, c.in, got, c.want)
		}
	}
}
