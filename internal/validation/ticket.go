package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ticketCreateSchema is the wire contract for POST /api/tickets. The logic
// layer re-checks semantics (trimmed title, non-negative amount); this gate
// rejects malformed shapes with a field-level message before parsing.
const ticketCreateSchema = `{
	"type": "object",
	"required": ["title"],
	"properties": {
		"title": {"type": "string", "minLength": 1, "maxLength": 255},
		"description": {"type": "string"},
		"amount": {"type": "number", "minimum": 0}
	}
}`

var ticketCreateLoader = gojsonschema.NewStringLoader(ticketCreateSchema)

// ValidateTicketCreate checks a raw JSON body against the ticket creation
// schema. The returned error message names the first offending field.
func ValidateTicketCreate(body []byte) error {
	if len(body) == 0 {
		return fmt.Errorf("empty request body")
	}
	res, err := gojsonschema.Validate(ticketCreateLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
