package domain

// AuthType identifies how a connector authenticates outbound requests.
type AuthType string

const (
	AuthTypeOAuth2 AuthType = "oauth2"
	AuthTypeAPIKey AuthType = "api_key"
	AuthTypeBasic  AuthType = "basic"
	AuthTypeNone   AuthType = "none"
)

// Valid reports whether t is one of the known auth types.
func (t AuthType) Valid() bool {
	switch t {
	case AuthTypeOAuth2, AuthTypeAPIKey, AuthTypeBasic, AuthTypeNone:
		return true
	}
	return false
}

// ParamKind says where a parameter is placed on the outbound request.
type ParamKind string

const (
	ParamKindQuery  ParamKind = "query"
	ParamKindPath   ParamKind = "path"
	ParamKindHeader ParamKind = "header"
	ParamKindBody   ParamKind = "body"
)

// ParamType is the scalar type a parameter value is coerced to.
type ParamType string

const (
	ParamTypeString ParamType = "string"
	ParamTypeInt    ParamType = "int"
	ParamTypeBool   ParamType = "bool"
	ParamTypeNumber ParamType = "number"
)

// AuthScheme describes a connector's authentication configuration.
// Client secrets are referenced by environment variable name so the
// catalog files never contain secret material.
type AuthScheme struct {
	Type            AuthType
	AuthURL         string   // oauth2: authorization endpoint
	TokenURL        string   // oauth2: token endpoint
	Scopes          []string // oauth2: requested scopes
	ClientIDEnv     string   // oauth2: env var holding the client id
	ClientSecretEnv string   // oauth2: env var holding the client secret
	KeyName         string   // api_key: header or query parameter name
	KeyIn           string   // api_key: "header" or "query"
}

// Parameter is one declared input of an endpoint.
type Parameter struct {
	Name        string
	Kind        ParamKind
	Type        ParamType
	Required    bool
	Description string
	Default     any
}

// Endpoint is one callable operation of a connector. Method and path come
// exclusively from the catalog, never from callers.
type Endpoint struct {
	Name         string
	DisplayName  string
	Description  string
	Method       string
	Path         string
	Parameters   []Parameter
	Headers      map[string]string // static headers sent on every call
	ResponseType string            // "json" (default), "text" or "binary"
}

// Connector is a declarative integration definition loaded from the
// catalog. Immutable after load.
type Connector struct {
	Name        string
	DisplayName string
	Description string
	Version     string
	BaseURL     string
	Auth        AuthScheme
	Endpoints   []Endpoint
}

// ConnectorSummary is the listing projection of a Connector.
type ConnectorSummary struct {
	Name        string
	DisplayName string
	Description string
	AuthType    AuthType
	Version     string
}

// Summary returns the listing projection of c.
func (c Connector) Summary() ConnectorSummary {
	return ConnectorSummary{
		Name:        c.Name,
		DisplayName: c.DisplayName,
		Description: c.Description,
		AuthType:    c.Auth.Type,
		Version:     c.Version,
	}
}
