package action

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    Action
		wantErr bool
	}{
		{"left click", "left_click", Action{Kind: LeftClick}, false},
		{"right click", "right_click", Action{Kind: RightClick}, false},
		{"double click", "double_click", Action{Kind: DoubleClick}, false},
		{"scroll up", "scroll_up", Action{Kind: ScrollUp}, false},
		{"scroll down", "scroll_down", Action{Kind: ScrollDown}, false},
		{"reset", "reset", Action{Kind: Reset}, false},
		{"key", "key:space", Action{Kind: "key", Arg: "space"}, false},
		{"type", "type:hello world", Action{Kind: "type", Arg: "hello world"}, false},
		{"exec", "exec:playerctl play-pause", Action{Kind: "exec", Arg: "playerctl play-pause"}, false},
		{"empty key", "key:", Action{}, true},
		{"empty exec", "exec:", Action{}, true},
		{"unknown", "teleport", Action{}, true},
		{"empty", "", Action{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestActionString_RoundTrip(t *testing.T) {
	for _, spec := range []string{"left_click", "key:enter", "exec:true"} {
		a, err := Parse(spec)
		if err != nil {
			t.Fatalf("Parse(%q) returned %v", spec, err)
		}
		if a.String() != spec {
			t.Errorf("String() = %q, want %q", a.String(), spec)
		}
	}
}
