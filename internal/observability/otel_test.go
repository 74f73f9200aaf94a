package observability

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseHeaders(t *testing.T) {
	t.Parallel()

	got := ParseHeaders(" authorization=Bearer x , bad, =v, k= ,tenant=wb")
	want := map[string]string{"authorization": "Bearer x", "tenant": "wb"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ParseHeaders mismatch (-want +got):\n%s", diff)
	}
	if ParseHeaders("  ") != nil {
		t.Fatalf("ParseHeaders(blank): expected nil")
	}
}

func TestClampRatio(t *testing.T) {
	t.Parallel()

	cases := map[float64]float64{-1: 0, 0: 0, 0.25: 0.25, 1: 1, 3: 1}
	for in, want := range cases {
		if got := clampRatio(in); got != want {
			t.Fatalf("clampRatio(%v): got=%v want=%v", in, got, want)
		}
	}
}
