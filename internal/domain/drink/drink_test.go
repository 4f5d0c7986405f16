package drink

import "testing"

func TestParseRecipe(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"list", `[{"name":"milk","color":"grey","parts":1},{"name":"coffee","color":"brown","parts":2}]`, 2, false},
		{"single object", `{"name":"water","color":"blue","parts":1}`, 1, false},
		{"empty list", `[]`, 0, false},
		{"null", `null`, 0, true},
		{"blank", ``, 0, true},
		{"not a recipe", `"espresso"`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecipe([]byte(tt.raw))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("got %d ingredients, want %d", len(got), tt.want)
			}
		})
	}
}

func TestRecipeRoundTrip(t *testing.T) {
	in := []Ingredient{{Name: "water", Color: "blue", Parts: 1}}
	s, err := EncodeRecipe(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeRecipe(s)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0] != in[0] {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}
