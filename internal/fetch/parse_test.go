package fetch

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func itemMarkup(words []string) string {
	var sb strings.Builder
	for i, w := range words {
		fmt.Fprintf(&sb, `<div id="item-%d" class="card"><span class="item">%s</span></div>`, i, w)
	}
	return sb.String()
}

func TestExtractWords_DocumentOrder(t *testing.T) {
	words := []string{
		"BASS", "FLOUNDER", "SALMON", "TROUT",
		"ANT", "DRAKE", "EMINEM", "FUTURE",
		"BUCKET", "GUITAR", "PAIL", "WING",
		"BANK", "NOTE", "CHECK", "DRAFT",
	}
	got, err := extractWords(itemMarkup(words), "item")
	if err != nil {
		t.Fatalf("extractWords: %v", err)
	}
	if diff := cmp.Diff(words, got); diff != "" {
		t.Errorf("word order (-want +got):\n%s", diff)
	}
}

func TestExtractWords_TrimsWhitespace(t *testing.T) {
	markup := `<div class="item">
		PADDED
	</div><span class="item"> EDGE </span>`
	got, err := extractWords(markup, "item")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"PADDED", "EDGE"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestExtractWords_ClassTokenMatching(t *testing.T) {
	// "item" must match as a whole token, not as a substring, and may
	// appear anywhere in a multi-class attribute.
	markup := `<div class="card item selected">YES</div>` +
		`<div class="itemized">NO</div>` +
		`<div class="item">ALSO</div>`
	got, err := extractWords(markup, "item")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"YES", "ALSO"}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestExtractWords_NestedText(t *testing.T) {
	markup := `<div class="item"><b>TWO</b> <i>WORDS</i></div>`
	got, err := extractWords(markup, "item")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "TWO WORDS" {
		t.Errorf("got %v", got)
	}
}

func TestExtractWords_EmptyMarkup(t *testing.T) {
	got, err := extractWords("", "item")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want none", got)
	}
}

func TestValidateCount(t *testing.T) {
	// A 15-item page must surface IncompleteExtractionError, not a
	// truncated list.
	words := make([]string, 15)
	for i := range words {
		words[i] = fmt.Sprintf("W%d", i)
	}
	got, err := extractWords(itemMarkup(words), "item")
	if err != nil {
		t.Fatal(err)
	}
	err = validateCount(got)
	var ie *IncompleteExtractionError
	if !errors.As(err, &ie) {
		t.Fatalf("got %v, want IncompleteExtractionError", err)
	}
	if ie.Found != 15 || ie.Want != 16 {
		t.Errorf("Found=%d Want=%d", ie.Found, ie.Want)
	}

	if err := validateCount(make([]string, 16)); err != nil {
		t.Errorf("16 words: %v", err)
	}
	if err := validateCount(make([]string, 17)); err == nil {
		t.Error("17 words: expected error")
	}
}
