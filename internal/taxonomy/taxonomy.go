// Package taxonomy provides the static accessibility-standard reference data
// and the classifier that resolves issues onto it.
package taxonomy

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/a11y-audit/internal/types"
)

//go:embed reference.json
var defaultReference []byte

//go:embed schema.json
var referenceSchema []byte

// Reference is the loaded, read-only taxonomy: topics, each holding
// numbered criteria with their tests and secondary-standard references.
type Reference struct {
	Version string        `json:"version"`
	Topics  []types.Topic `json:"topics"`

	byNumber map[string]*types.Criterion
}

// ValidationError reports schema violations in a taxonomy document.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single schema violation at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("taxonomy validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateDocument checks raw taxonomy JSON against the reference schema.
func ValidateDocument(data []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(referenceSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to run schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

// Load parses and validates a taxonomy document from raw JSON.
func Load(data []byte) (*Reference, error) {
	if err := ValidateDocument(data); err != nil {
		return nil, err
	}

	var ref Reference
	if err := json.Unmarshal(data, &ref); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy JSON: %w", err)
	}

	ref.byNumber = make(map[string]*types.Criterion)
	for ti := range ref.Topics {
		topic := &ref.Topics[ti]
		for ci := range topic.Criteria {
			criterion := &topic.Criteria[ci]
			criterion.TopicNumber = topic.Number
			ref.byNumber[criterion.Number] = criterion
		}
	}
	return &ref, nil
}

// LoadFile loads a taxonomy document from a file path.
func LoadFile(path string) (*Reference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file %s: %w", path, err)
	}
	return Load(data)
}

// LoadDefault loads the embedded reference document.
func LoadDefault() (*Reference, error) {
	return Load(defaultReference)
}

// Criterion looks up a criterion by its number, e.g. "11.1".
func (r *Reference) Criterion(number string) (*types.Criterion, bool) {
	c, ok := r.byNumber[number]
	return c, ok
}

// Criteria returns every criterion in the reference, ordered by topic then
// numeric position within the topic.
func (r *Reference) Criteria() []types.Criterion {
	var out []types.Criterion
	for _, topic := range r.Topics {
		out = append(out, topic.Criteria...)
	}
	return out
}

// AutoTestableCriteria returns the criteria an automated audit can evaluate.
func (r *Reference) AutoTestableCriteria() []types.Criterion {
	var out []types.Criterion
	for _, c := range r.Criteria() {
		if c.AutoTestable {
			out = append(out, c)
		}
	}
	return out
}

// TopicName returns the display name for a topic number, or "Uncategorized"
// for topic 0 and unknown numbers.
func (r *Reference) TopicName(number int) string {
	for _, topic := range r.Topics {
		if topic.Number == number {
			return topic.Name
		}
	}
	return "Uncategorized"
}

// TopicNumbers returns the sorted list of topic numbers in the reference.
func (r *Reference) TopicNumbers() []int {
	numbers := make([]int, 0, len(r.Topics))
	for _, topic := range r.Topics {
		numbers = append(numbers, topic.Number)
	}
	sort.Ints(numbers)
	return numbers
}
