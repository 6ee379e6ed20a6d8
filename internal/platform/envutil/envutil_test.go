package envutil

import (
	"reflect"
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	cases := []struct {
		name string
		val  string
		want time.Duration
	}{
		{name: "go_syntax", val: "90s", want: 90 * time.Second},
		{name: "plain_seconds", val: "30", want: 30 * time.Second},
		{name: "garbage_uses_default", val: "soon", want: time.Minute},
		{name: "empty_uses_default", val: "", want: time.Minute},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("PB_TEST_DURATION", tc.val)
			if got := Duration("PB_TEST_DURATION", time.Minute, nil); got != tc.want {
				t.Fatalf("Duration(%q)=%v want %v", tc.val, got, tc.want)
			}
		})
	}
}

func TestBoolAndInt(t *testing.T) {
	t.Setenv("PB_TEST_BOOL", "on")
	if !Bool("PB_TEST_BOOL", false, nil) {
		t.Fatalf("expected true")
	}
	t.Setenv("PB_TEST_BOOL", "maybe")
	if Bool("PB_TEST_BOOL", false, nil) {
		t.Fatalf("unparseable value should fall back to default")
	}
	t.Setenv("PB_TEST_INT", "12x")
	if got := Int("PB_TEST_INT", 7, nil); got != 7 {
		t.Fatalf("Int=%d want 7", got)
	}
}

func TestList(t *testing.T) {
	t.Setenv("PB_TEST_LIST", " http://a , ,http://b")
	got := List("PB_TEST_LIST", nil, nil)
	want := []string{"http://a", "http://b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("List=%v want %v", got, want)
	}
}

func TestFloat(t *testing.T) {
	t.Setenv("PB_TEST_FLOAT", "0.25")
	if got := Float("PB_TEST_FLOAT", 1, nil); got != 0.25 {
		t.Fatalf("Float=%v", got)
	}
	t.Setenv("PB_TEST_FLOAT", "lots")
	if got := Float("PB_TEST_FLOAT", 1, nil); got != 1 {
		t.Fatalf("Float fallback=%v", got)
	}
}
