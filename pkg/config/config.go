// Package config resolves the configuration a remote operation needs from
// command-line arguments, the local settings file, and the process
// environment.
package config

import (
	"fmt"
	"strings"
)

// Field names shared by flags, the settings file, and resolution errors.
const (
	FieldAuthoringKey = "authoringKey"
	FieldEndpointBase = "endpointBase"
	FieldAppID        = "appId"
	FieldVersionID    = "versionId"
)

// Fields lists the configuration fields in the order they are resolved and
// reported.
var Fields = []string{FieldAuthoringKey, FieldEndpointBase, FieldAppID, FieldVersionID}

// EnvVars maps each field to the environment variable that supplies its
// lowest-precedence value.
var EnvVars = map[string]string{
	FieldAuthoringKey: "LUIS_AUTHORING_KEY",
	FieldEndpointBase: "LUIS_ENDPOINT_BASE",
	FieldAppID:        "LUIS_APP_ID",
	FieldVersionID:    "LUIS_VERSION_ID",
}

// endpointTemplate is the authoring endpoint for a service region.
const endpointTemplate = "https://%s.api.cognitive.microsoft.com"

// EndpointForRegion returns the endpoint base URL for a service region such
// as "westus".
func EndpointForRegion(region string) string {
	return fmt.Sprintf(endpointTemplate, strings.TrimSpace(region))
}

// Configuration carries the values every remote operation needs. It is
// complete by construction: Resolve never returns one with an empty field.
type Configuration struct {
	AuthoringKey string `json:"authoringKey"`
	EndpointBase string `json:"endpointBase"`
	AppID        string `json:"appId"`
	VersionID    string `json:"versionId"`
}

// Source is one field lookup the resolver consults. A missing key and an
// empty value both mean the source has nothing for that field.
type Source map[string]string

// EnvSource builds a Source from the process environment. The lookup is
// injectable so resolution stays a pure function of its inputs.
func EnvSource(lookup func(string) string) Source {
	src := Source{}
	for field, name := range EnvVars {
		if v := lookup(name); v != "" {
			src[field] = v
		}
	}
	return src
}

// Resolve merges the three sources field by field, arguments winning over
// the settings file and the settings file winning over the environment.
// The inputs are never mutated. When any field remains unset the resolution
// fails with a *ConfigurationError naming every missing field.
func Resolve(args, settings, env Source) (*Configuration, error) {
	merged := make(map[string]string, len(Fields))
	for _, field := range Fields {
		for _, src := range []Source{args, settings, env} {
			if v, ok := src[field]; ok && v != "" {
				merged[field] = v
				break
			}
		}
	}

	var missing []string
	for _, field := range Fields {
		if merged[field] == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, &ConfigurationError{Missing: missing}
	}

	return &Configuration{
		AuthoringKey: merged[FieldAuthoringKey],
		EndpointBase: merged[FieldEndpointBase],
		AppID:        merged[FieldAppID],
		VersionID:    merged[FieldVersionID],
	}, nil
}
