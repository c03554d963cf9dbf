package registry

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/patchbay-dev/patchbay/internal/platform/domain"
)

// connectorFile mirrors the YAML layout of one catalog file.
type connectorFile struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
	BaseURL     string `yaml:"base_url"`
	Auth        struct {
		Type            string   `yaml:"type"`
		AuthURL         string   `yaml:"auth_url"`
		TokenURL        string   `yaml:"token_url"`
		Scopes          []string `yaml:"scopes"`
		ClientIDEnv     string   `yaml:"client_id_env"`
		ClientSecretEnv string   `yaml:"client_secret_env"`
		KeyName         string   `yaml:"key_name"`
		KeyIn           string   `yaml:"key_in"`
	} `yaml:"auth"`
	Endpoints []struct {
		Name         string            `yaml:"name"`
		DisplayName  string            `yaml:"display_name"`
		Description  string            `yaml:"description"`
		Method       string            `yaml:"method"`
		Path         string            `yaml:"path"`
		Headers      map[string]string `yaml:"headers"`
		ResponseType string            `yaml:"response_type"`
		Parameters   []struct {
			Name        string `yaml:"name"`
			Kind        string `yaml:"kind"`
			Type        string `yaml:"type"`
			Required    bool   `yaml:"required"`
			Description string `yaml:"description"`
			Default     any    `yaml:"default"`
		} `yaml:"parameters"`
	} `yaml:"endpoints"`
}

// Load reads every *.yaml file in dir and builds the registry. Any invalid
// file is fatal; a half-loaded catalog is worse than a refused start.
func Load(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("registry: reading catalog dir: %w", err)
	}

	var connectors []domain.Connector
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		c, err := loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("registry: %s: %w", entry.Name(), err)
		}
		connectors = append(connectors, c)
	}

	return New(connectors)
}

func loadFile(path string) (domain.Connector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Connector{}, err
	}

	var f connectorFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return domain.Connector{}, err
	}

	return buildConnector(f)
}

func buildConnector(f connectorFile) (domain.Connector, error) {
	if f.Name == "" {
		return domain.Connector{}, fmt.Errorf("connector name is required")
	}
	if f.BaseURL == "" {
		return domain.Connector{}, fmt.Errorf("connector %q: base_url is required", f.Name)
	}

	authType := domain.AuthType(f.Auth.Type)
	if f.Auth.Type == "" {
		authType = domain.AuthTypeNone
	}
	if !authType.Valid() {
		return domain.Connector{}, fmt.Errorf("connector %q: unknown auth type %q", f.Name, f.Auth.Type)
	}
	if authType == domain.AuthTypeOAuth2 {
		if f.Auth.AuthURL == "" || f.Auth.TokenURL == "" {
			return domain.Connector{}, fmt.Errorf("connector %q: oauth2 requires auth_url and token_url", f.Name)
		}
	}
	if authType == domain.AuthTypeAPIKey {
		if f.Auth.KeyName == "" {
			return domain.Connector{}, fmt.Errorf("connector %q: api_key requires key_name", f.Name)
		}
		switch f.Auth.KeyIn {
		case "", "header", "query":
		default:
			return domain.Connector{}, fmt.Errorf("connector %q: key_in must be header or query", f.Name)
		}
	}

	c := domain.Connector{
		Name:        f.Name,
		DisplayName: f.DisplayName,
		Description: f.Description,
		Version:     f.Version,
		BaseURL:     strings.TrimSuffix(f.BaseURL, "/"),
		Auth: domain.AuthScheme{
			Type:            authType,
			AuthURL:         f.Auth.AuthURL,
			TokenURL:        f.Auth.TokenURL,
			Scopes:          f.Auth.Scopes,
			ClientIDEnv:     f.Auth.ClientIDEnv,
			ClientSecretEnv: f.Auth.ClientSecretEnv,
			KeyName:         f.Auth.KeyName,
			KeyIn:           f.Auth.KeyIn,
		},
	}
	if c.DisplayName == "" {
		c.DisplayName = c.Name
	}
	if c.Version == "" {
		c.Version = "1.0.0"
	}
	if c.Auth.Type == domain.AuthTypeAPIKey && c.Auth.KeyIn == "" {
		c.Auth.KeyIn = "header"
	}

	seen := make(map[string]struct{}, len(f.Endpoints))
	for _, e := range f.Endpoints {
		if e.Name == "" {
			return domain.Connector{}, fmt.Errorf("connector %q: endpoint name is required", f.Name)
		}
		if _, ok := seen[e.Name]; ok {
			return domain.Connector{}, fmt.Errorf("connector %q: duplicate endpoint %q", f.Name, e.Name)
		}
		seen[e.Name] = struct{}{}

		method := strings.ToUpper(e.Method)
		switch method {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			return domain.Connector{}, fmt.Errorf("connector %q: endpoint %q: unsupported method %q", f.Name, e.Name, e.Method)
		}
		if !strings.HasPrefix(e.Path, "/") {
			return domain.Connector{}, fmt.Errorf("connector %q: endpoint %q: path must start with /", f.Name, e.Name)
		}

		ep := domain.Endpoint{
			Name:         e.Name,
			DisplayName:  e.DisplayName,
			Description:  e.Description,
			Method:       method,
			Path:         e.Path,
			Headers:      e.Headers,
			ResponseType: e.ResponseType,
		}
		if ep.DisplayName == "" {
			ep.DisplayName = ep.Name
		}
		if ep.ResponseType == "" {
			ep.ResponseType = "json"
		}

		for _, p := range e.Parameters {
			kind := domain.ParamKind(p.Kind)
			if p.Kind == "" {
				kind = domain.ParamKindQuery
			}
			switch kind {
			case domain.ParamKindQuery, domain.ParamKindPath, domain.ParamKindHeader, domain.ParamKindBody:
			default:
				return domain.Connector{}, fmt.Errorf("connector %q: endpoint %q: parameter %q: unknown kind %q", f.Name, e.Name, p.Name, p.Kind)
			}

			typ := domain.ParamType(p.Type)
			switch p.Type {
			case "", "string":
				typ = domain.ParamTypeString
			case "int", "integer":
				typ = domain.ParamTypeInt
			case "bool", "boolean":
				typ = domain.ParamTypeBool
			case "number", "float":
				typ = domain.ParamTypeNumber
			default:
				return domain.Connector{}, fmt.Errorf("connector %q: endpoint %q: parameter %q: unknown type %q", f.Name, e.Name, p.Name, p.Type)
			}

			ep.Parameters = append(ep.Parameters, domain.Parameter{
				Name:        p.Name,
				Kind:        kind,
				Type:        typ,
				Required:    p.Required,
				Description: p.Description,
				Default:     p.Default,
			})
		}

		c.Endpoints = append(c.Endpoints, ep)
	}

	return c, nil
}
