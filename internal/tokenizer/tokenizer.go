// Package tokenizer estimates token counts for exported documents.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

const (
	defaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"
)

// NewCounter returns a Counter for the requested model along with the resolved
// model or encoding name. Unknown models fall back to the default encoding.
func NewCounter(model string) (Counter, string, error) {
	resolvedModel := strings.ToLower(strings.TrimSpace(model))
	if resolvedModel == "" {
		resolvedModel = defaultModel
	}

	encoding, encodingError := tiktoken.EncodingForModel(resolvedModel)
	if encodingError == nil && encoding != nil {
		return modelCounter{encoding: encoding, name: resolvedModel}, resolvedModel, nil
	}

	fallback, fallbackError := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackError != nil {
		return nil, "", fmt.Errorf("initialize fallback tokenizer: %w", fallbackError)
	}
	return modelCounter{encoding: fallback, name: defaultEncodingName}, defaultEncodingName, nil
}

type modelCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter modelCounter) Name() string {
	return counter.name
}

func (counter modelCounter) CountString(input string) (int, error) {
	tokenIDs := counter.encoding.Encode(input, nil, nil)
	return len(tokenIDs), nil
}
