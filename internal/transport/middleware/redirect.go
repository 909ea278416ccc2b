package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

const (
	resourcePrefix = "/api/v1/resource/"
	appPrefix      = "/app/"
)

// RedirectRule renames a doctype: requests for From are sent to To.
type RedirectRule struct {
	From string
	To   string
}

type compiledRule struct {
	fromDoctype string
	toDoctype   string
	fromSlug    string
	toSlug      string
}

// Redirector rewrites legacy doctype routes with a permanent redirect. It is
// built once at startup and holds no mutable state.
type Redirector struct {
	rules []compiledRule
}

func NewRedirector(rules []RedirectRule) *Redirector {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		from, to := strings.TrimSpace(r.From), strings.TrimSpace(r.To)
		if from == "" || to == "" || strings.EqualFold(from, to) {
			continue
		}
		compiled = append(compiled, compiledRule{
			fromDoctype: from,
			toDoctype:   to,
			fromSlug:    Slug(from),
			toSlug:      Slug(to),
		})
	}
	return &Redirector{rules: compiled}
}

// Slug is the route form of a doctype name: "Custom Timesheet" -> "custom-timesheet".
func Slug(doctype string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(doctype)), " ", "-")
}

// splitSegment returns the first path segment after prefix, unescaped, and
// the remainder (including its leading slash) exactly as it was sent.
func splitSegment(escaped, prefix string) (string, string, bool) {
	if len(escaped) <= len(prefix) || !strings.EqualFold(escaped[:len(prefix)], prefix) {
		return "", "", false
	}
	rest, remainder := escaped[len(prefix):], ""
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest, remainder = rest[:i], rest[i:]
	}
	segment, err := url.PathUnescape(rest)
	if err != nil {
		return "", "", false
	}
	return segment, remainder, true
}

// Resolve returns the redirect target for an escaped request path, if any
// rule matches. The part after the doctype is carried over still escaped.
func (rd *Redirector) Resolve(escaped string) (string, bool) {
	if segment, remainder, ok := splitSegment(escaped, resourcePrefix); ok {
		for _, rule := range rd.rules {
			if strings.EqualFold(segment, rule.fromDoctype) {
				return resourcePrefix + url.PathEscape(rule.toDoctype) + remainder, true
			}
		}
	}
	if segment, remainder, ok := splitSegment(escaped, appPrefix); ok {
		for _, rule := range rd.rules {
			if strings.EqualFold(segment, rule.fromSlug) {
				return appPrefix + url.PathEscape(rule.toSlug) + remainder, true
			}
		}
	}
	return "", false
}

func (rd *Redirector) Middleware(next http.Handler) http.Handler {
	if len(rd.rules) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target, ok := rd.Resolve(r.URL.EscapedPath())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusPermanentRedirect)
	})
}
