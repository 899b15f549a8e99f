package cli

import (
	"context"
	"errors"

	"github.com/hyperjump/docreader/internal/javadoc"
)

// Lookup names one piece of documentation. Which resolver operation runs
// depends on the keys present: Field selects the field (or its Tag), Method
// selects the method (its Param or its Tag), otherwise the type itself.
type Lookup struct {
	Type   string `json:"type"`
	Field  string `json:"field,omitempty"`
	Method string `json:"method,omitempty"`
	Param  string `json:"param,omitempty"`
	Tag    string `json:"tag,omitempty"`
}

// Result is a Lookup together with its resolved text.
type Result struct {
	Lookup
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

var (
	errMissingType       = errors.New("type is required")
	errFieldAndMethod    = errors.New("field and method are mutually exclusive")
	errParamWithoutOwner = errors.New("param requires method")
	errParamAndTag       = errors.New("param and tag are mutually exclusive")
)

// Validate reports lookups that do not map onto a single operation.
func (l Lookup) Validate() error {
	switch {
	case l.Type == "":
		return errMissingType
	case l.Field != "" && l.Method != "":
		return errFieldAndMethod
	case l.Param != "" && l.Method == "":
		return errParamWithoutOwner
	case l.Param != "" && l.Tag != "":
		return errParamAndTag
	}
	return nil
}

// Resolve runs the resolver operation selected by l.
func Resolve(ctx context.Context, r *javadoc.Resolver, l Lookup) (string, error) {
	if err := l.Validate(); err != nil {
		return "", err
	}
	switch {
	case l.Field != "" && l.Tag != "":
		return r.FieldTag(ctx, l.Type, l.Field, l.Tag)
	case l.Field != "":
		return r.FieldComment(ctx, l.Type, l.Field)
	case l.Method != "" && l.Param != "":
		return r.MethodParameterComment(ctx, l.Type, l.Method, l.Param)
	case l.Method != "" && l.Tag != "":
		return r.MethodTag(ctx, l.Type, l.Method, l.Tag)
	case l.Method != "":
		return r.MethodComment(ctx, l.Type, l.Method)
	case l.Tag != "":
		return r.TypeTag(ctx, l.Type, l.Tag)
	default:
		return r.TypeComment(ctx, l.Type)
	}
}
