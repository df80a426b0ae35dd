// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// PartKind discriminates the Part union on the wire.
type PartKind string

// Part kinds.
const (
	PartKindText PartKind = "text"
	PartKindFile PartKind = "file"
	PartKindData PartKind = "data"
)

// Part is one atomic piece of content inside a Message or Artifact. It is a
// sealed union of [TextPart], [FilePart] and [DataPart], discriminated by
// the "kind" field on the wire.
type Part interface {
	// PartKind returns the wire discriminant of the part.
	PartKind() PartKind

	// PartMetadata returns the opaque metadata attached to the part.
	PartMetadata() map[string]any

	// Validate ensures the part is well formed.
	Validate() error
}

var (
	_ Part = (*TextPart)(nil)
	_ Part = (*FilePart)(nil)
	_ Part = (*DataPart)(nil)
)

// TextPart carries a plain text segment.
type TextPart struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitzero"`
}

// PartKind returns the wire discriminant of the part.
func (p *TextPart) PartKind() PartKind { return PartKindText }

// PartMetadata returns the opaque metadata attached to the part.
func (p *TextPart) PartMetadata() map[string]any { return p.Metadata }

// Validate ensures the TextPart is well formed.
func (p *TextPart) Validate() error {
	if p.Text == "" {
		return NewValidationError(FieldViolation{Field: "text", Description: "text part text cannot be empty"})
	}
	return nil
}

// DataPart carries an arbitrary structured payload.
type DataPart struct {
	Data     map[string]any `json:"data"`
	Metadata map[string]any `json:"metadata,omitzero"`
}

// PartKind returns the wire discriminant of the part.
func (p *DataPart) PartKind() PartKind { return PartKindData }

// PartMetadata returns the opaque metadata attached to the part.
func (p *DataPart) PartMetadata() map[string]any { return p.Metadata }

// Validate ensures the DataPart is well formed.
func (p *DataPart) Validate() error {
	if p.Data == nil {
		return NewValidationError(FieldViolation{Field: "data", Description: "data part data cannot be nil"})
	}
	return nil
}

// FilePart carries file content, either inline or by reference.
type FilePart struct {
	File     FileContent    `json:"file"`
	Metadata map[string]any `json:"metadata,omitzero"`
}

// PartKind returns the wire discriminant of the part.
func (p *FilePart) PartKind() PartKind { return PartKindFile }

// PartMetadata returns the opaque metadata attached to the part.
func (p *FilePart) PartMetadata() map[string]any { return p.Metadata }

// Validate ensures the FilePart is well formed.
func (p *FilePart) Validate() error {
	if p.File == nil {
		return NewValidationError(FieldViolation{Field: "file", Description: "file part file cannot be nil"})
	}
	ve := &ValidationError{}
	ve.Merge("file", p.File.Validate())
	return ve.Err()
}

// FileContent is the two-variant union inside a [FilePart]: exactly one of
// inline bytes ([FileWithBytes]) or an external reference ([FileWithURI]).
// Modeling the exclusivity as a union makes "exactly one of" a type-level
// invariant rather than a runtime check on two optional fields.
type FileContent interface {
	// FileName returns the optional file name.
	FileName() string

	// FileMIMEType returns the optional media type.
	FileMIMEType() string

	// Validate ensures the file content is well formed.
	Validate() error

	fileContent()
}

var (
	_ FileContent = (*FileWithBytes)(nil)
	_ FileContent = (*FileWithURI)(nil)
)

// FileWithBytes is file content embedded as base64-encoded bytes.
type FileWithBytes struct {
	Name     string `json:"name,omitzero"`
	MIMEType string `json:"mimeType,omitzero"`
	Bytes    string `json:"bytes"`
}

// FileName returns the optional file name.
func (f *FileWithBytes) FileName() string { return f.Name }

// FileMIMEType returns the optional media type.
func (f *FileWithBytes) FileMIMEType() string { return f.MIMEType }

// Validate ensures the file content is well formed.
func (f *FileWithBytes) Validate() error {
	if f.Bytes == "" {
		return NewValidationError(FieldViolation{Field: "bytes", Description: "file bytes cannot be empty"})
	}
	return nil
}

func (*FileWithBytes) fileContent() {}

// FileWithURI is file content referenced by URI.
type FileWithURI struct {
	Name     string `json:"name,omitzero"`
	MIMEType string `json:"mimeType,omitzero"`
	URI      string `json:"uri"`
}

// FileName returns the optional file name.
func (f *FileWithURI) FileName() string { return f.Name }

// FileMIMEType returns the optional media type.
func (f *FileWithURI) FileMIMEType() string { return f.MIMEType }

// Validate ensures the file content is well formed.
func (f *FileWithURI) Validate() error {
	if f.URI == "" {
		return NewValidationError(FieldViolation{Field: "uri", Description: "file uri cannot be empty"})
	}
	return nil
}

func (*FileWithURI) fileContent() {}

// partEnvelope is the wire layout shared by all part variants. Exactly one
// payload field is populated per kind.
type partEnvelope struct {
	Kind     PartKind        `json:"kind"`
	Text     string          `json:"text,omitzero"`
	File     jsontext.Value `json:"file,omitzero"`
	Data     map[string]any  `json:"data,omitzero"`
	Metadata map[string]any  `json:"metadata,omitzero"`
}

// MarshalPart encodes a Part with its kind discriminant.
func MarshalPart(part Part) ([]byte, error) {
	if part == nil {
		return nil, fmt.Errorf("part cannot be nil")
	}

	switch p := part.(type) {
	case *TextPart:
		return json.Marshal(struct {
			Kind PartKind `json:"kind"`
			*TextPart
		}{PartKindText, p})
	case *FilePart:
		file, err := MarshalFileContent(p.File)
		if err != nil {
			return nil, err
		}
		return json.Marshal(partEnvelope{Kind: PartKindFile, File: file, Metadata: p.Metadata})
	case *DataPart:
		return json.Marshal(struct {
			Kind PartKind `json:"kind"`
			*DataPart
		}{PartKindData, p})
	default:
		return nil, fmt.Errorf("unknown part type: %T", part)
	}
}

// UnmarshalPart decodes a Part, dispatching on the "kind" discriminant.
// Payloads whose fields do not match their declared kind are rejected.
func UnmarshalPart(data []byte) (Part, error) {
	var env partEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, NewValidationError(FieldViolation{Field: "", Description: "malformed part: " + err.Error()})
	}

	switch env.Kind {
	case PartKindText:
		if env.File != nil || env.Data != nil {
			return nil, NewValidationError(FieldViolation{Field: "kind", Description: `part with kind "text" carries non-text payload fields`})
		}
		return &TextPart{Text: env.Text, Metadata: env.Metadata}, nil

	case PartKindFile:
		if env.Text != "" || env.Data != nil {
			return nil, NewValidationError(FieldViolation{Field: "kind", Description: `part with kind "file" carries non-file payload fields`})
		}
		if env.File == nil {
			return nil, NewValidationError(FieldViolation{Field: "file", Description: "file part file cannot be empty"})
		}
		file, err := UnmarshalFileContent(env.File)
		if err != nil {
			ve := &ValidationError{}
			return nil, ve.Merge("file", err)
		}
		return &FilePart{File: file, Metadata: env.Metadata}, nil

	case PartKindData:
		if env.Text != "" || env.File != nil {
			return nil, NewValidationError(FieldViolation{Field: "kind", Description: `part with kind "data" carries non-data payload fields`})
		}
		if env.Data == nil {
			return nil, NewValidationError(FieldViolation{Field: "data", Description: "data part data cannot be empty"})
		}
		return &DataPart{Data: env.Data, Metadata: env.Metadata}, nil

	case "":
		return nil, NewValidationError(FieldViolation{Field: "kind", Description: "part kind is required"})

	default:
		return nil, NewValidationError(FieldViolation{Field: "kind", Description: fmt.Sprintf("unknown part kind: %q", env.Kind)})
	}
}

// MarshalFileContent encodes a FileContent variant.
func MarshalFileContent(file FileContent) ([]byte, error) {
	switch f := file.(type) {
	case *FileWithBytes:
		return json.Marshal(f)
	case *FileWithURI:
		return json.Marshal(f)
	default:
		return nil, fmt.Errorf("unknown file content type: %T", file)
	}
}

// UnmarshalFileContent decodes a FileContent variant, rejecting payloads
// that set both bytes and uri, or neither.
func UnmarshalFileContent(data []byte) (FileContent, error) {
	var probe map[string]any
	if err := sonic.ConfigFastest.Unmarshal(data, &probe); err != nil {
		return nil, NewValidationError(FieldViolation{Field: "", Description: "malformed file content: " + err.Error()})
	}

	_, hasBytes := probe["bytes"]
	_, hasURI := probe["uri"]
	switch {
	case hasBytes && hasURI:
		return nil, NewValidationError(FieldViolation{Field: "", Description: "file content must not set both bytes and uri"})
	case hasBytes:
		var f FileWithBytes
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, NewValidationError(FieldViolation{Field: "bytes", Description: err.Error()})
		}
		return &f, nil
	case hasURI:
		var f FileWithURI
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, NewValidationError(FieldViolation{Field: "uri", Description: err.Error()})
		}
		return &f, nil
	default:
		return nil, NewValidationError(FieldViolation{Field: "", Description: "file content must set exactly one of bytes or uri"})
	}
}

// PartList is a slice of Parts with union-aware JSON encoding.
type PartList []Part

// MarshalJSON implements [json.Marshaler].
func (pl PartList) MarshalJSON() ([]byte, error) {
	raw := make([]jsontext.Value, len(pl))
	for i, part := range pl {
		data, err := MarshalPart(part)
		if err != nil {
			return nil, fmt.Errorf("marshal part %d: %w", i, err)
		}
		raw[i] = data
	}
	return json.Marshal(raw)
}

// UnmarshalJSON implements [json.Unmarshaler].
func (pl *PartList) UnmarshalJSON(data []byte) error {
	var raw []jsontext.Value
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parts := make(PartList, len(raw))
	for i, r := range raw {
		part, err := UnmarshalPart(r)
		if err != nil {
			ve := &ValidationError{}
			return ve.Merge(fmt.Sprintf("parts[%d]", i), err)
		}
		parts[i] = part
	}
	*pl = parts
	return nil
}

// Validate ensures every part in the list is well formed.
func (pl PartList) Validate() error {
	ve := &ValidationError{}
	for i, part := range pl {
		if part == nil {
			ve.Add(fmt.Sprintf("parts[%d]", i), "part cannot be nil")
			continue
		}
		ve.Merge(fmt.Sprintf("parts[%d]", i), part.Validate())
	}
	return ve.Err()
}

// NewTextPart creates a text part.
func NewTextPart(text string) *TextPart {
	return &TextPart{Text: text}
}

// NewDataPart creates a data part.
func NewDataPart(data map[string]any) *DataPart {
	return &DataPart{Data: data}
}

// NewFilePartWithBytes creates a file part with inline content.
func NewFilePartWithBytes(name, mimeType, b64 string) *FilePart {
	return &FilePart{File: &FileWithBytes{Name: name, MIMEType: mimeType, Bytes: b64}}
}

// NewFilePartWithURI creates a file part referencing external content.
func NewFilePartWithURI(name, mimeType, uri string) *FilePart {
	return &FilePart{File: &FileWithURI{Name: name, MIMEType: mimeType, URI: uri}}
}
