package model

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

const (
	uuidField                = "uuid"
	parametersField          = "parameters"
	titleField               = "title"
	filePathField            = "file_path"
	incomingConnectionsField = "incoming_connections"
)

// Step is one node of a pipeline. Only its UUID and parameters are
// interpreted; every other field of the document entry is kept verbatim.
type Step struct {
	uuid      string
	params    Params
	hasParams bool
	fields    map[string]json.RawMessage
}

func decodeStep(key string, raw json.RawMessage) (*Step, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, errors.Wrapf(ErrInvalidStep, "step %s: %v", key, err)
	}
	if fields == nil {
		return nil, errors.Wrapf(ErrInvalidStep, "step %s is null", key)
	}

	if rawUUID, ok := fields[uuidField]; ok {
		var id string
		if err := json.Unmarshal(rawUUID, &id); err != nil || id != key {
			return nil, errors.Wrapf(ErrUUIDMismatch, "step %s declares uuid %s", key, rawUUID)
		}
	}

	step := &Step{uuid: key, fields: fields}

	rawParams, ok := fields[parametersField]
	if !ok || isNull(rawParams) {
		return step, nil
	}

	params := Params{}
	if err := decodeJSON(rawParams, &params); err != nil {
		return nil, errors.Wrapf(ErrInvalidParameters, "step %s: %v", key, err)
	}

	step.params = params
	step.hasParams = true
	delete(step.fields, parametersField)

	return step, nil
}

// UUID returns the identifier of the step.
func (s *Step) UUID() string {
	return s.uuid
}

// Params returns a copy of the parameters of the step.
func (s *Step) Params() Params {
	return s.params.Clone()
}

// WithParams returns a copy of the step carrying params as its parameters.
// The receiver is left untouched.
func (s *Step) WithParams(params Params) *Step {
	fields := make(map[string]json.RawMessage, len(s.fields))
	for k, v := range s.fields {
		if k == parametersField {
			continue
		}
		fields[k] = v
	}

	return &Step{
		uuid:      s.uuid,
		params:    params.Clone(),
		hasParams: true,
		fields:    fields,
	}
}

// Field returns the raw JSON of a field the model does not interpret.
func (s *Step) Field(name string) (json.RawMessage, bool) {
	raw, ok := s.fields[name]
	if !ok {
		return nil, false
	}

	return append(json.RawMessage(nil), raw...), true
}

// Title returns the human readable title of the step, if any.
func (s *Step) Title() string {
	var title string
	s.decodeField(titleField, &title)

	return title
}

// FilePath returns the file the step executes, if any.
func (s *Step) FilePath() string {
	var path string
	s.decodeField(filePathField, &path)

	return path
}

// IncomingConnections returns the UUIDs of the steps this one depends on.
func (s *Step) IncomingConnections() []string {
	var uuids []string
	s.decodeField(incomingConnectionsField, &uuids)

	return uuids
}

// decodeField leaves v untouched when the field is absent or malformed.
func (s *Step) decodeField(name string, v any) {
	raw, ok := s.fields[name]
	if !ok {
		return
	}
	_ = json.Unmarshal(raw, v)
}

// MarshalJSON encodes the step back to its document entry.
func (s *Step) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(s.fields)+1)
	for k, v := range s.fields {
		out[k] = v
	}

	if s.hasParams {
		raw, err := json.Marshal(s.params)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to encode parameters of step %s", s.uuid)
		}
		out[parametersField] = raw
	}

	return json.Marshal(out)
}

func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	return dec.Decode(v)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
