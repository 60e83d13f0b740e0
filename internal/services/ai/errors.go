package ai

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

// GenerationError is returned when no model produced a usable listing.
type GenerationError struct {
	Tried    []string
	FailFast bool
	Err      error
}

func (e *GenerationError) Error() string {
	if e.FailFast && len(e.Tried) > 0 {
		return fmt.Sprintf("failed to generate product with model %s: %v", e.Tried[len(e.Tried)-1], e.Err)
	}
	if len(e.Tried) == 0 {
		return fmt.Sprintf("failed to generate product: %v", e.Err)
	}
	return fmt.Sprintf("no available Gemini model found. Tried: %s. Last error: %v", strings.Join(e.Tried, ", "), e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// APIError is a non-2xx answer from the text generation endpoint.
type APIError struct {
	StatusCode int
	Status     string // provider status, e.g. NOT_FOUND
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("[%d %s] %s (%s)", e.StatusCode, http.StatusText(e.StatusCode), e.Message, e.Status)
}

var (
	modelNotFoundPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)404\s*not\s*found`),
		regexp.MustCompile(`(?i)model.*not\s*found`),
		regexp.MustCompile(`(?i)is\s+not\s+supported\s+for\s+generateContent`),
	}
	fatalPattern = regexp.MustCompile(`(?i)quota|rate.?limit|resource.?exhausted|api.?key|unauthori[sz]ed|permission.?denied|unauthenticated|billing`)
)

type errorClass int

const (
	classOther errorClass = iota
	classModelUnavailable
	classFatal
)

func classify(err error) errorClass {
	msg := err.Error()
	for _, re := range modelNotFoundPatterns {
		if re.MatchString(msg) {
			return classModelUnavailable
		}
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
			return classFatal
		}
	}
	if fatalPattern.MatchString(msg) {
		return classFatal
	}
	return classOther
}

func (c errorClass) String() string {
	switch c {
	case classModelUnavailable:
		return "not_found"
	case classFatal:
		return "fatal"
	default:
		return "error"
	}
}
