package llm

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// maxReportedIssues bounds how many schema violations an error names.
const maxReportedIssues = 3

// compiledSchemas holds compiled schemas keyed by name and definition
// digest, so two schemas sharing a name never collide.
var compiledSchemas sync.Map // map[string]*jsonschema.Schema

// checkContent rejects an empty reply and, when req carries a schema,
// validates the reply against it. Every adapter runs it on the text it
// extracted.
func checkContent(req Request, content json.RawMessage) error {
	if len(bytes.TrimSpace(content)) == 0 {
		return &ErrInvalidResponse{Err: errors.New("empty response content")}
	}
	return validateResponse(req.Schema, content)
}

// validateResponse checks raw against schema. A nil schema accepts
// anything. Failures are *ErrInvalidResponse so the retry layer can ask
// again.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := compileSchema(schema)
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("compile schema %q: %w", schema.Name, err)}
	}

	if err := compiled.Validate(doc); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("schema %q: %s", schema.Name, summarizeViolations(err))}
	}
	return nil
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal definition: %w", err)
	}
	sum := sha256.Sum256(def)
	key := schema.Name + "@" + hex.EncodeToString(sum[:8])

	if cached, ok := compiledSchemas.Load(key); ok {
		return cached.(*jsonschema.Schema), nil
	}

	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}

	url := fmt.Sprintf("schema://%s.json", key)
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, parsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, err
	}

	actual, _ := compiledSchemas.LoadOrStore(key, compiled)
	return actual.(*jsonschema.Schema), nil
}

// summarizeViolations flattens a validation error into "at /path: reason"
// pairs, which are short enough to log and to feed back into a prompt.
func summarizeViolations(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}

	var issues []string
	var walk func(u jsonschema.OutputUnit)
	walk = func(u jsonschema.OutputUnit) {
		if u.Error != nil && len(u.Errors) == 0 {
			loc := u.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			issues = append(issues, fmt.Sprintf("at %s: %s", loc, u.Error))
		}
		for _, child := range u.Errors {
			walk(child)
		}
	}
	walk(*ve.BasicOutput())

	if len(issues) == 0 {
		return ve.Error()
	}
	if len(issues) > maxReportedIssues {
		more := len(issues) - maxReportedIssues
		issues = append(issues[:maxReportedIssues], fmt.Sprintf("and %d more", more))
	}
	return strings.Join(issues, "; ")
}
