package env

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Resolver expands {{name}} placeholders. Supported forms:
//   - {{name}}: a variable set on the resolver
//   - {{$NAME}}: a process environment variable
//   - {{uuid()}}, {{timestamp()}}: generated values
//
// Unresolved placeholders are left untouched.
type Resolver struct {
	variables map[string]string
	now       func() time.Time
}

func NewResolver(vars ...map[string]string) *Resolver {
	r := &Resolver{
		variables: make(map[string]string),
		now:       time.Now,
	}
	for _, v := range vars {
		r.SetVariables(v)
	}
	return r
}

func (r *Resolver) SetVariables(vars map[string]string) {
	for k, v := range vars {
		r.variables[k] = v
	}
}

func (r *Resolver) SetVariable(name, value string) {
	r.variables[name] = value
}

func (r *Resolver) Resolve(input string) string {
	return variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		if val, ok := r.lookup(strings.TrimSpace(match[2 : len(match)-2])); ok {
			return val
		}
		return match
	})
}

func (r *Resolver) lookup(expr string) (string, bool) {
	if name, ok := strings.CutPrefix(expr, "$"); ok {
		return os.LookupEnv(name)
	}

	switch expr {
	case "uuid()":
		return uuid.NewString(), true
	case "timestamp()":
		return strconv.FormatInt(r.now().Unix(), 10), true
	}

	val, ok := r.variables[expr]
	return val, ok
}

// HasUnresolved reports whether input still contains a placeholder after
// resolution.
func (r *Resolver) HasUnresolved(input string) bool {
	return variablePattern.MatchString(r.Resolve(input))
}

func (r *Resolver) ResolveAll(values map[string]string) map[string]string {
	result := make(map[string]string, len(values))
	for k, v := range values {
		result[k] = r.Resolve(v)
	}
	return result
}
