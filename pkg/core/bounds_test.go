package core

import "testing"

func TestParseBounds(t *testing.T) {
	tests := []struct {
		input   string
		want    Bounds
		wantErr bool
	}{
		{"[0,0][1080,1920]", Bounds{X: 0, Y: 0, Width: 1080, Height: 1920}, false},
		{"[100,200][300,250]", Bounds{X: 100, Y: 200, Width: 200, Height: 50}, false},
		{" [10,20][30,40] ", Bounds{X: 10, Y: 20, Width: 20, Height: 20}, false},
		{"", Bounds{}, true},
		{"[100,200]", Bounds{}, true},
		{"[a,b][c,d]", Bounds{}, true},
		{"100,200,300,400", Bounds{}, true},
	}

	for _, tt := range tests {
		got, err := ParseBounds(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseBounds(%q) expected error, got %+v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseBounds(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseBounds(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestBounds_Center(t *testing.T) {
	b := Bounds{X: 100, Y: 200, Width: 200, Height: 50}
	x, y := b.Center()
	if x != 200 || y != 225 {
		t.Errorf("Center() = (%d, %d), want (200, 225)", x, y)
	}
}

func TestBounds_RoundTrip(t *testing.T) {
	b := Bounds{X: 10, Y: 20, Width: 30, Height: 40}
	parsed, err := ParseBounds(b.String())
	if err != nil {
		t.Fatalf("ParseBounds(%q) failed: %v", b.String(), err)
	}
	if parsed != b {
		t.Errorf("round trip = %+v, want %+v", parsed, b)
	}
}
