package advisor

import "errors"

var (
	ErrEmptyKeywords   = errors.New("rule has no keywords")
	ErrUnknownResponse = errors.New("unknown response key")
	ErrMissingFallback = errors.New("missing fallback lines")

	ErrMissingDefaultLanguage = errors.New("missing text in default response language")
)
