package models

import "testing"

func TestParsePrice(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want float64
	}{
		{"plain number", 19.9, 19.9},
		{"integer", 25, 25},
		{"dot string", "19.90", 19.9},
		{"comma as decimal separator", "19,90", 19.9},
		{"padded comma string", " 49,50 ", 49.5},
		{"not numeric", "dezenove", 0},
		{"empty string", "", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParsePrice(tc.in); got != tc.want {
				t.Fatalf("ParsePrice(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestCleanProductPayload(t *testing.T) {
	t.Run("keeps only allowed columns", func(t *testing.T) {
		out := CleanProductPayload(map[string]interface{}{
			"name":   "Vela Lavanda",
			"_id":    "injected",
			"status": "hacked",
		})
		if out["name"] != "Vela Lavanda" {
			t.Fatalf("expected name preserved, got %v", out["name"])
		}
		if _, ok := out["_id"]; ok {
			t.Fatal("_id must be dropped")
		}
		if _, ok := out["status"]; ok {
			t.Fatal("unknown columns must be dropped")
		}
	})

	t.Run("empty string becomes explicit null", func(t *testing.T) {
		out := CleanProductPayload(map[string]interface{}{"brand": ""})
		v, ok := out["brand"]
		if !ok {
			t.Fatal("empty field must still be present in the payload")
		}
		if v != nil {
			t.Fatalf("expected nil, got %v", v)
		}
	})

	t.Run("absent fields stay absent", func(t *testing.T) {
		out := CleanProductPayload(map[string]interface{}{"name": "Difusor"})
		if _, ok := out["price"]; ok {
			t.Fatal("price was not in the input and must not appear")
		}
	})

	t.Run("price is parsed through ParsePrice", func(t *testing.T) {
		out := CleanProductPayload(map[string]interface{}{"price": "89,90"})
		if out["price"] != 89.9 {
			t.Fatalf("expected 89.9, got %v", out["price"])
		}
	})
}
