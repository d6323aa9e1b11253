package geom

import "testing"

func TestParseLength(t *testing.T) {
	tests := []struct {
		in      string
		want    Length
		wantErr bool
	}{
		{"520px", Px(520), false},
		{"520", Px(520), false},
		{" 40% ", Percent(40), false},
		{"AUTO", Auto(), false},
		{"12.5%", Percent(12.5), false},
		{"", Length{}, true},
		{"wide", Length{}, true},
		{"-3px", Length{}, true},
	}
	for _, tt := range tests {
		got, err := ParseLength(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLength(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLength(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLengthResolve(t *testing.T) {
	if got := Percent(25).Resolve(1440); got != 360 {
		t.Errorf("25%% of 1440 = %v", got)
	}
	if got := Px(520).Resolve(1440); got != 520 {
		t.Errorf("520px = %v", got)
	}
	if got := Auto().Resolve(700); got != 700 {
		t.Errorf("auto = %v", got)
	}
}

func TestLengthTextRoundTrip(t *testing.T) {
	for _, l := range []Length{Px(520), Percent(40), Auto()} {
		text, err := l.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Length
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if back != l {
			t.Fatalf("round trip %v -> %q -> %v", l, text, back)
		}
	}
}
