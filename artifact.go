// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"github.com/google/uuid"
)

// Artifact is a named output of a task, built from one or more parts and
// possibly delivered in chunks through [TaskArtifactUpdateEvent]s.
type Artifact struct {
	// ArtifactID identifies the artifact within its task.
	ArtifactID string `json:"artifactId"`

	// Name is an optional human-readable name.
	Name string `json:"name,omitzero"`

	// Description is an optional human-readable description.
	Description string `json:"description,omitzero"`

	// Parts is the accumulated artifact content.
	Parts PartList `json:"parts"`

	// Extensions lists protocol extension URIs relevant to the artifact.
	Extensions []string `json:"extensions,omitzero"`

	// Metadata is an opaque key-value bag.
	Metadata map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the Artifact is well formed.
func (a *Artifact) Validate() error {
	ve := &ValidationError{}
	if a.ArtifactID == "" {
		ve.Add("artifactId", "artifact id cannot be empty")
	}
	if len(a.Parts) == 0 {
		ve.Add("parts", "artifact must contain at least one part")
	} else {
		ve.Merge("", a.Parts.Validate())
	}
	return ve.Err()
}

// Clone returns a copy of the artifact with its own parts slice. Part
// values themselves are immutable once received and are shared.
func (a *Artifact) Clone() *Artifact {
	if a == nil {
		return nil
	}
	clone := *a
	clone.Parts = make(PartList, len(a.Parts))
	copy(clone.Parts, a.Parts)
	if a.Extensions != nil {
		clone.Extensions = append([]string(nil), a.Extensions...)
	}
	return &clone
}

// NewArtifact creates an artifact with a generated artifact id.
func NewArtifact(name string, parts ...Part) *Artifact {
	return &Artifact{
		ArtifactID: uuid.NewString(),
		Name:       name,
		Parts:      parts,
	}
}

// NewTextArtifact creates an artifact holding a single text part.
func NewTextArtifact(name, text string) *Artifact {
	return NewArtifact(name, NewTextPart(text))
}
