package shopify

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Redirect is a re-authentication signal: the caller must send the browser
// to Location with Status and retry the whole action afterwards.
type Redirect struct {
	Status   int
	Location string
}

// ReauthError carries a Redirect through error returns. It is a control
// signal, not a failure, and is never wrapped into SyncError.
type ReauthError struct {
	Redirect Redirect
}

func (e *ReauthError) Error() string {
	return fmt.Sprintf("re-authentication required (%d %s)", e.Redirect.Status, e.Redirect.Location)
}

// AsReauth reports whether err carries a re-authentication redirect.
func AsReauth(err error) (Redirect, bool) {
	var re *ReauthError
	if errors.As(err, &re) {
		return re.Redirect, true
	}
	return Redirect{}, false
}

type GraphQLLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type GraphQLError struct {
	Message    string            `json:"message"`
	Path       []any             `json:"path,omitempty"`
	Locations  []GraphQLLocation `json:"locations,omitempty"`
	Extensions map[string]any    `json:"extensions,omitempty"`
}

func (e GraphQLError) String() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.Path) > 0 {
		parts := make([]string, len(e.Path))
		for i, p := range e.Path {
			parts[i] = fmt.Sprint(p)
		}
		fmt.Fprintf(&b, " (path: %s)", strings.Join(parts, "."))
	}
	if len(e.Locations) > 0 {
		fmt.Fprintf(&b, " (line: %d, column: %d)", e.Locations[0].Line, e.Locations[0].Column)
	}
	return b.String()
}

func (e GraphQLError) code() string {
	if e.Extensions == nil {
		return ""
	}
	code, _ := e.Extensions["code"].(string)
	return code
}

type GraphQLErrors []GraphQLError

func (errs GraphQLErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.String()
	}
	return strings.Join(msgs, "; ")
}

var schemaMismatchPatterns = []*regexp.Regexp{
	regexp.MustCompile(`doesn't accept argument`),
	regexp.MustCompile(`Field '?[\w]+'? doesn't exist`),
	regexp.MustCompile(`isn't a defined input type`),
	regexp.MustCompile(`is not defined on`),
	regexp.MustCompile(`InputObject '?\w+'? doesn't accept`),
	regexp.MustCompile(`Variable \$\w+ of type \S+ was provided invalid value`),
}

var schemaMismatchCodes = map[string]bool{
	"undefinedField":      true,
	"argumentNotAccepted": true,
	"undefinedType":       true,
}

// SchemaMismatch reports whether every error says the request shape does not
// fit this API version, as opposed to a real failure.
func (errs GraphQLErrors) SchemaMismatch() bool {
	if len(errs) == 0 {
		return false
	}
	for _, e := range errs {
		if !isSchemaMismatch(e) {
			return false
		}
	}
	return true
}

func isSchemaMismatch(e GraphQLError) bool {
	if schemaMismatchCodes[e.code()] {
		return true
	}
	for _, re := range schemaMismatchPatterns {
		if re.MatchString(e.Message) {
			return true
		}
	}
	return false
}

// UserError is a business-rule rejection returned inside a mutation payload.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
}

func (e UserError) String() string {
	if len(e.Field) == 0 {
		return e.Message
	}
	return fmt.Sprintf("[%s] %s", strings.Join(e.Field, "."), e.Message)
}

func userErrorsString(errs []UserError) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.String()
	}
	return strings.Join(msgs, "; ")
}

// HTTPStatusError is a non-2xx answer that is not a redirect.
type HTTPStatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	body := e.Body
	if len(body) > 300 {
		body = body[:300] + "..."
	}
	return fmt.Sprintf("shopify graphql: %s: %s", e.Status, body)
}

// SyncError is a rejected product creation.
type SyncError struct {
	Status     int
	Message    string
	GraphQL    GraphQLErrors
	UserErrors []UserError
	Err        error
}

func (e *SyncError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("Failed to sync product to Shopify (%d): %s", e.Status, e.Message)
	}
	return "Failed to sync product to Shopify: " + e.Message
}

func (e *SyncError) Unwrap() error { return e.Err }

func newSyncError(err error) *SyncError {
	se := &SyncError{Message: err.Error(), Err: err}
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		se.Status = statusErr.StatusCode
	}
	return se
}
