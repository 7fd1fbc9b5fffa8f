package fetch

import (
	"errors"
	"fmt"
)

// Failure taxonomy for the extraction pipeline. Callers can distinguish a
// page that never finished rendering from a script or parse failure, and a
// short result is a hard error rather than a silently truncated word list.
var (
	// ErrLoadTimeout means the page never signalled load completion, or
	// the grid markup never appeared after the load event.
	ErrLoadTimeout = errors.New("fetch: page load timed out")

	// ErrScriptExecution means the injected serialization script threw or
	// returned no usable value.
	ErrScriptExecution = errors.New("fetch: extraction script failed")

	// ErrParse means the serialized markup could not be parsed.
	ErrParse = errors.New("fetch: markup parse failed")
)

// IncompleteExtractionError reports that parsing succeeded but recovered
// fewer (or more) words than the grid requires. This covers page schema
// drift: a changed element count fails hard instead of truncating.
type IncompleteExtractionError struct {
	Found int
	Want  int
}

func (e *IncompleteExtractionError) Error() string {
	return fmt.Sprintf("fetch: extracted %d words, want %d", e.Found, e.Want)
}
