// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

// AgentProvider identifies the organization serving an agent.
type AgentProvider struct {
	Organization string `json:"organization"`
	URL          string `json:"url,omitzero"`
}

// Validate ensures the AgentProvider is well formed.
func (p AgentProvider) Validate() error {
	if p.Organization == "" {
		return NewValidationError(FieldViolation{Field: "organization", Description: "provider organization cannot be empty"})
	}
	return nil
}

// AgentCapabilities declares the optional protocol features an agent
// supports.
type AgentCapabilities struct {
	// Streaming indicates support for message/stream and tasks/resubscribe.
	Streaming bool `json:"streaming,omitzero"`

	// PushNotifications indicates support for the push notification config
	// methods.
	PushNotifications bool `json:"pushNotifications,omitzero"`

	// StateTransitionHistory indicates the agent retains status messages in
	// task history.
	StateTransitionHistory bool `json:"stateTransitionHistory,omitzero"`

	// Extensions lists protocol extensions the agent understands.
	Extensions []AgentExtension `json:"extensions,omitzero"`
}

// AgentExtension declares one protocol extension.
type AgentExtension struct {
	URI         string         `json:"uri"`
	Description string         `json:"description,omitzero"`
	Required    bool           `json:"required,omitzero"`
	Params      map[string]any `json:"params,omitzero"`
}

// Validate ensures the AgentExtension is well formed.
func (e AgentExtension) Validate() error {
	if e.URI == "" {
		return NewValidationError(FieldViolation{Field: "uri", Description: "extension uri cannot be empty"})
	}
	return nil
}

// AgentSkill describes one unit of capability an agent advertises.
type AgentSkill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitzero"`
	Tags        []string `json:"tags,omitzero"`
	Examples    []string `json:"examples,omitzero"`
	InputModes  []string `json:"inputModes,omitzero"`
	OutputModes []string `json:"outputModes,omitzero"`
}

// Validate ensures the AgentSkill is well formed.
func (s AgentSkill) Validate() error {
	ve := &ValidationError{}
	if s.ID == "" {
		ve.Add("id", "skill id cannot be empty")
	}
	if s.Name == "" {
		ve.Add("name", "skill name cannot be empty")
	}
	return ve.Err()
}

// AgentInterface declares one transport binding of an agent's service.
type AgentInterface struct {
	URL       string `json:"url"`
	Transport string `json:"transport"`
}

// Validate ensures the AgentInterface is well formed.
func (i AgentInterface) Validate() error {
	ve := &ValidationError{}
	if i.URL == "" {
		ve.Add("url", "interface url cannot be empty")
	}
	if i.Transport == "" {
		ve.Add("transport", "interface transport cannot be empty")
	}
	return ve.Err()
}

// Transport identifiers for AgentInterface declarations.
const (
	TransportJSONRPC  = "JSONRPC"
	TransportGRPC     = "GRPC"
	TransportHTTPJSON = "HTTP+JSON"
)

// AgentCard is the declarative capability descriptor an agent serves at
// its well-known path. It is a mostly static document; this engine only
// defines its shape and validation.
type AgentCard struct {
	Name               string            `json:"name"`
	Description        string            `json:"description,omitzero"`
	URL                string            `json:"url"`
	PreferredTransport string            `json:"preferredTransport,omitzero"`
	AdditionalInterfaces []AgentInterface `json:"additionalInterfaces,omitzero"`
	Provider           *AgentProvider    `json:"provider,omitzero"`
	Version            string            `json:"version"`
	ProtocolVersion    string            `json:"protocolVersion,omitzero"`
	DocumentationURL   string            `json:"documentationUrl,omitzero"`
	Capabilities       AgentCapabilities `json:"capabilities"`
	SecuritySchemes    map[string]SecurityScheme `json:"securitySchemes,omitzero"`
	Security           []map[string][]string     `json:"security,omitzero"`
	DefaultInputModes  []string          `json:"defaultInputModes,omitzero"`
	DefaultOutputModes []string          `json:"defaultOutputModes,omitzero"`
	Skills             []AgentSkill      `json:"skills,omitzero"`

	// SupportsAuthenticatedExtendedCard indicates the agent serves a richer
	// card through agent/getAuthenticatedExtendedCard.
	SupportsAuthenticatedExtendedCard bool `json:"supportsAuthenticatedExtendedCard,omitzero"`
}

// Validate ensures the AgentCard is well formed.
func (c *AgentCard) Validate() error {
	ve := &ValidationError{}
	if c.Name == "" {
		ve.Add("name", "card name cannot be empty")
	}
	if c.URL == "" {
		ve.Add("url", "card url cannot be empty")
	}
	if c.Version == "" {
		ve.Add("version", "card version cannot be empty")
	}
	for _, iface := range c.AdditionalInterfaces {
		ve.Merge("additionalInterfaces", iface.Validate())
	}
	if c.Provider != nil {
		ve.Merge("provider", c.Provider.Validate())
	}
	for _, skill := range c.Skills {
		ve.Merge("skills", skill.Validate())
	}
	for _, ext := range c.Capabilities.Extensions {
		ve.Merge("capabilities.extensions", ext.Validate())
	}
	return ve.Err()
}

// SecurityScheme is one authentication scheme declaration. The engine
// treats schemes as opaque shapes; enforcement is a transport concern.
type SecurityScheme struct {
	Type             string `json:"type"`
	Description      string `json:"description,omitzero"`
	Name             string `json:"name,omitzero"`
	In               string `json:"in,omitzero"`
	Scheme           string `json:"scheme,omitzero"`
	BearerFormat     string `json:"bearerFormat,omitzero"`
	OpenIDConnectURL string `json:"openIdConnectUrl,omitzero"`
}

// Validate ensures the SecurityScheme is well formed.
func (s SecurityScheme) Validate() error {
	if s.Type == "" {
		return NewValidationError(FieldViolation{Field: "type", Description: "security scheme type cannot be empty"})
	}
	return nil
}
