package yoinker

import (
	"errors"
	"fmt"
	"strings"
)

// Method selects where passage text comes from.
type Method string

const (
	// MethodBG scrapes BibleGateway.
	MethodBG Method = "BG"
	// MethodGPT asks a language model.
	MethodGPT Method = "GPT"
)

// ErrUnknownMethod is returned for method names other than BG and GPT.
var ErrUnknownMethod = errors.New("unknown method")

// ParseMethod accepts BG or GPT in any case.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToUpper(strings.TrimSpace(s))) {
	case MethodBG:
		return MethodBG, nil
	case MethodGPT:
		return MethodGPT, nil
	default:
		return "", fmt.Errorf("%w: %q (expected BG or GPT)", ErrUnknownMethod, s)
	}
}

func (m Method) String() string {
	return string(m)
}
