package receipt

import (
	"testing"
)

func TestDecodeItems(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []ParsedItem
		wantErr bool
	}{
		{
			name: "plain JSON array",
			raw:  `[{"item_name": "Caesar Salad", "quantity": 1, "total_price": 12.5}]`,
			want: []ParsedItem{{ItemName: "Caesar Salad", Quantity: 1, TotalPrice: 12.5}},
		},
		{
			name: "fenced JSON",
			raw:  "```json\n[{\"item_name\": \"IPA Beer\", \"quantity\": 2, \"total_price\": 16.0}]\n```",
			want: []ParsedItem{{ItemName: "IPA Beer", Quantity: 2, TotalPrice: 16.0}},
		},
		{
			name: "missing quantity defaults to 1",
			raw:  `[{"item_name": "Fries", "total_price": 4.25}]`,
			want: []ParsedItem{{ItemName: "Fries", Quantity: 1, TotalPrice: 4.25}},
		},
		{
			name: "empty array",
			raw:  `[]`,
			want: []ParsedItem{},
		},
		{
			name:    "not JSON",
			raw:     "Here are the items you asked for:",
			wantErr: true,
		},
		{
			name:    "JSON object instead of array",
			raw:     `{"item_name": "Pizza"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := decodeItems(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("decodeItems() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeItems() error = %v", err)
			}
			if len(items) != len(tt.want) {
				t.Fatalf("got %d items, want %d", len(items), len(tt.want))
			}
			for i := range items {
				if items[i] != tt.want[i] {
					t.Errorf("item %d = %+v, want %+v", i, items[i], tt.want[i])
				}
			}
		})
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "no fences", raw: `[1]`, want: `[1]`},
		{name: "bare fences", raw: "```\n[1]\n```", want: `[1]`},
		{name: "language tag", raw: "```json\n[1]\n```", want: `[1]`},
		{name: "surrounding whitespace", raw: "  ```json\n[1]\n```  ", want: `[1]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.raw); got != tt.want {
				t.Errorf("stripFences() = %q, want %q", got, tt.want)
			}
		})
	}
}
