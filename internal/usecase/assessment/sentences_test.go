package assessment

import (
	"reflect"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	got := splitSentences("I led the migration project. It shipped on time! Was it hard? Yes it really was.")
	want := []string{
		"I led the migration project.",
		"It shipped on time!",
		"Was it hard?",
		"Yes it really was.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSplitSentences_DropsShortFragments(t *testing.T) {
	got := splitSentences("Yes. No. I worked on the payment gateway rewrite.")
	want := []string{"I worked on the payment gateway rewrite."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSplitSentences_KeepsTrailingFragment(t *testing.T) {
	got := splitSentences("First answer here. and then the call dropped mid sentence")
	want := []string{
		"First answer here.",
		"and then the call dropped mid sentence",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSplitSentences_Empty(t *testing.T) {
	if got := splitSentences(""); got != nil {
		t.Fatalf("expected nil for empty text, got %v", got)
	}
	if got := splitSentences("  ok.  "); got != nil {
		t.Fatalf("expected nil when everything is too short, got %v", got)
	}
}
