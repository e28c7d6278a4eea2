// AngelaMos | 2026
// tier_test.go

package tier

import (
	"errors"
	"testing"
)

func TestRankFollowsCanonicalOrder(t *testing.T) {
	all := All()

	for i, a := range all {
		if a.Rank() != i {
			t.Errorf("%s.Rank() = %d, want %d", a, a.Rank(), i)
		}
		for j, b := range all {
			got := a.Rank() <= b.Rank()
			want := i <= j
			if got != want {
				t.Errorf("rank(%s) <= rank(%s) = %v, want %v", a, b, got, want)
			}
		}
	}
}

func TestRankInvalid(t *testing.T) {
	for _, s := range []string{"", "bronze", "Gold", " free", "PLATINUM"} {
		if r := Tier(s).Rank(); r != -1 {
			t.Errorf("Tier(%q).Rank() = %d, want -1", s, r)
		}
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"free", true},
		{"silver", true},
		{"gold", true},
		{"platinum", true},
		{"bronze", false},
		{"", false},
		{"Free", false},
	}

	for _, tt := range tests {
		if got := IsValid(tt.in); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	got, err := Parse("gold")
	if err != nil {
		t.Fatalf("Parse(gold) error: %v", err)
	}
	if got != Gold {
		t.Errorf("Parse(gold) = %q", got)
	}

	_, err = Parse("bronze")
	if !errors.Is(err, ErrInvalidTier) {
		t.Errorf("Parse(bronze) error = %v, want ErrInvalidTier", err)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b Tier
		want Ordering
	}{
		{Free, Silver, Lower},
		{Gold, Gold, Equal},
		{Platinum, Free, Higher},
		{Silver, Gold, Lower},
	}

	for _, tt := range tests {
		if got := Compare(tt.a, tt.b); got != tt.want {
			t.Errorf("Compare(%s, %s) = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCovers(t *testing.T) {
	if !Gold.Covers(Silver) {
		t.Error("gold should cover silver")
	}
	if !Gold.Covers(Gold) {
		t.Error("gold should cover gold")
	}
	if Silver.Covers(Gold) {
		t.Error("silver should not cover gold")
	}
	if Platinum.Covers(Tier("bronze")) {
		t.Error("unknown required tier must not be covered")
	}
	if Tier("vip").Covers(Free) {
		t.Error("unknown holder tier must not cover anything")
	}
}

func TestTitle(t *testing.T) {
	if got := Platinum.Title(); got != "Platinum" {
		t.Errorf("Title() = %q", got)
	}
}
