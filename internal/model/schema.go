package model

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ErrMalformedSnapshot = errors.New("model: malformed snapshot")

//go:embed snapshot.schema.json
var snapshotSchemaJSON []byte

const snapshotSchemaURL = "tasks-state.schema.json"

var snapshotSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(snapshotSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("load snapshot schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(snapshotSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("load snapshot schema: %w", err)
	}
	return c.Compile(snapshotSchemaURL)
})

var issuePrinter = message.NewPrinter(language.English)

type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// SchemaError lists every place a snapshot departs from the TaskState shape.
type SchemaError struct {
	Issues []Issue
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return "model: snapshot schema: " + strings.Join(parts, "; ")
}

// ParseSnapshot decodes and validates a persisted TaskState. Counters are
// returned as stored, even when they disagree with the todos.
func ParseSnapshot(raw []byte) (TaskState, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return TaskState{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return TaskState{}, fmt.Errorf("%w: trailing data after snapshot", ErrMalformedSnapshot)
	}

	sch, err := snapshotSchema()
	if err != nil {
		return TaskState{}, err
	}
	if err := sch.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if !errors.As(err, &verr) {
			return TaskState{}, err
		}
		return TaskState{}, &SchemaError{Issues: issuesOf(verr)}
	}
	return decodeState(doc.(map[string]any))
}

// issuesOf flattens a validation tree into its leaf failures. A missing
// property is reported at the property's own path.
func issuesOf(verr *jsonschema.ValidationError) []Issue {
	if len(verr.Causes) > 0 {
		var out []Issue
		for _, cause := range verr.Causes {
			out = append(out, issuesOf(cause)...)
		}
		return out
	}
	if req, ok := verr.ErrorKind.(*kind.Required); ok {
		out := make([]Issue, 0, len(req.Missing))
		for _, name := range req.Missing {
			out = append(out, Issue{
				Path:    issuePath(append(append([]string(nil), verr.InstanceLocation...), name)),
				Message: "required property missing",
			})
		}
		return out
	}
	return []Issue{{
		Path:    issuePath(verr.InstanceLocation),
		Message: verr.ErrorKind.LocalizedString(issuePrinter),
	}}
}

// issuePath renders ["todos","0","id"] as todos[0].id.
func issuePath(location []string) string {
	var sb strings.Builder
	for _, seg := range location {
		if _, err := strconv.Atoi(seg); err == nil {
			sb.WriteString("[" + seg + "]")
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(seg)
	}
	return sb.String()
}

// decodeState converts a document that already passed the schema.
func decodeState(obj map[string]any) (TaskState, error) {
	var issues []Issue
	number := func(path string, v any) int64 {
		n, ok := integerOf(v.(json.Number))
		if !ok {
			issues = append(issues, Issue{Path: path, Message: "integer out of range"})
		}
		return n
	}

	out := TaskState{Todos: []Todo{}}
	for i, item := range obj["todos"].([]any) {
		todo := item.(map[string]any)
		out.Todos = append(out.Todos, Todo{
			ID:        number(fmt.Sprintf("todos[%d].id", i), todo["id"]),
			Text:      todo["text"].(string),
			Completed: todo["completed"].(bool),
		})
	}
	out.Length = int(number("length", obj["length"]))
	out.Completed = int(number("completed", obj["completed"]))
	out.Pending = int(number("pending", obj["pending"]))
	if len(issues) > 0 {
		return TaskState{}, &SchemaError{Issues: issues}
	}
	return out, nil
}

// integerOf accepts any JSON number that is integral and fits in int64,
// so 1, 1.0 and 1.7e12 all qualify.
func integerOf(num json.Number) (int64, bool) {
	if n, err := num.Int64(); err == nil {
		return n, true
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
