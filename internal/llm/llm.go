// Package llm produces scene programs from prompts.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrGeneration wraps every failure to produce a program.
var ErrGeneration = errors.New("generation failed")

// Result is one generated program.
type Result struct {
	Code        string `json:"code" yaml:"code"`
	Explanation string `json:"explanation" yaml:"explanation"`
}

// Generator turns a prompt into program text. Implementations must honour
// ctx cancellation.
type Generator interface {
	Generate(ctx context.Context, prompt string) (Result, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (Result, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (Result, error) {
	return f(ctx, prompt)
}

func generationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrGeneration, fmt.Sprintf(format, args...))
}

var (
	fenceRe = regexp.MustCompile("```(?:javascript|json|js)?")
	// redeclRe drops lines that recreate the capabilities the host passes in.
	redeclRe = regexp.MustCompile(`(?im)^[ \t]*(?:const|let|var)\s+(?:scene|camera|renderer)\s*=\s*new\s+THREE\.(?:Scene|PerspectiveCamera|WebGLRenderer)\([^\n]*\);?[ \t]*\r?\n?`)
	// mountRe drops attempts to attach the renderer to a DOM that does not exist.
	mountRe = regexp.MustCompile(`(?m)^[ \t]*document\.[^\n]*\.appendChild\(\s*renderer\.domElement\s*\);?[ \t]*\r?\n?`)
)

// Sanitize strips markdown fences and redeclarations of scene, camera and
// renderer from generated code.
func Sanitize(code string) string {
	code = fenceRe.ReplaceAllString(code, "")
	code = redeclRe.ReplaceAllString(code, "")
	code = mountRe.ReplaceAllString(code, "")
	return strings.TrimSpace(code) + "\n"
}

// Decode parses a model reply. The reply should be the JSON object
// {"code": ..., "explanation": ...}; a reply that is bare code is accepted
// with an empty explanation.
func Decode(reply string) (Result, error) {
	text := strings.TrimSpace(reply)
	if text == "" {
		return Result{}, generationError("empty response")
	}
	if obj := jsonObject(text); obj != "" {
		var out Result
		if err := json.Unmarshal([]byte(obj), &out); err == nil && strings.TrimSpace(out.Code) != "" {
			out.Code = Sanitize(out.Code)
			out.Explanation = strings.TrimSpace(out.Explanation)
			return out, nil
		}
	}
	if strings.HasPrefix(text, "{") {
		return Result{}, generationError("response is not a {code, explanation} object")
	}
	return Result{Code: Sanitize(text)}, nil
}

// jsonObject returns the outermost {...} span of s, tolerating fences and
// chatter around it.
func jsonObject(s string) string {
	s = fenceRe.ReplaceAllString(s, "")
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	candidate := s[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return ""
	}
	return candidate
}
