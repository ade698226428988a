package version

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		quad Quad
		want Release
	}{
		{"unicode 10", Quad{10, 0, 0, 0}, Unicode10_0},
		{"unicode 3.0.1", Quad{3, 0, 1, 0}, Unicode3_0_1},
		{"unicode 1.0", Quad{1, 0, 0, 0}, Unicode1_0},
		{"resource bundle data version", Quad{1, 4, 0, 0}, Unknown},
		{"nonzero micro", Quad{10, 0, 0, 1}, Unknown},
		{"zero", Quad{}, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Resolve(tt.quad)
			if v.Release != tt.want {
				t.Errorf("Resolve(%v).Release = %v, want %v", tt.quad, v.Release, tt.want)
			}
			if v.Quad != tt.quad {
				t.Errorf("Resolve(%v).Quad = %v, raw bytes not preserved", tt.quad, v.Quad)
			}
			if v.Known() != (tt.want != Unknown) {
				t.Errorf("Known() = %v for %v", v.Known(), tt.want)
			}
		})
	}
}

func TestReleaseNamesComplete(t *testing.T) {
	for q, r := range releases {
		if _, ok := releaseNames[r]; !ok {
			t.Errorf("release %d for %v has no name", int(r), q)
		}
	}
	if len(releases) != int(Unicode10_0) {
		t.Errorf("expected %d releases in table, got %d", int(Unicode10_0), len(releases))
	}
}

func TestParseQuad(t *testing.T) {
	tests := []struct {
		in      string
		want    Quad
		wantErr bool
	}{
		{"1.4.0.0", Quad{1, 4, 0, 0}, false},
		{"10", Quad{10, 0, 0, 0}, false},
		{"3.2", Quad{3, 2, 0, 0}, false},
		{"", Quad{}, true},
		{"1.2.3.4.5", Quad{}, true},
		{"1.x", Quad{}, true},
		{"256", Quad{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseQuad(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseQuad(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseQuad(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	if Compare(Quad{1, 4, 0, 0}, Quad{1, 4, 0, 0}) != 0 {
		t.Error("equal quads should compare 0")
	}
	if Compare(Quad{1, 4, 0, 0}, Quad{1, 5, 0, 0}) != -1 {
		t.Error("1.4 should be older than 1.5")
	}
	if Compare(Quad{2, 0, 0, 0}, Quad{1, 9, 9, 9}) != 1 {
		t.Error("2.0 should be newer than 1.9.9.9")
	}
}

func TestQuadString(t *testing.T) {
	if got := (Quad{1, 4, 0, 0}).String(); got != "1.4.0.0" {
		t.Errorf("String() = %q", got)
	}
	v := Resolve(Quad{10, 0, 0, 0})
	if got := v.String(); got != "10.0.0.0 (Unicode 10.0)" {
		t.Errorf("Version.String() = %q", got)
	}
}
