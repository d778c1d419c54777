package config

import (
	"errors"
	"strings"
	"testing"
)

func fullSource(prefix string) Source {
	return Source{
		FieldAuthoringKey: prefix + "-key",
		FieldEndpointBase: "https://" + prefix + ".api.cognitive.microsoft.com",
		FieldAppID:        prefix + "-app",
		FieldVersionID:    prefix + "-version",
	}
}

func TestResolvePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		args     Source
		settings Source
		env      Source
		field    string
		want     string
	}{
		{
			name:     "argument wins over settings and environment",
			args:     Source{FieldAppID: "from-args"},
			settings: fullSource("settings"),
			env:      fullSource("env"),
			field:    FieldAppID,
			want:     "from-args",
		},
		{
			name:     "settings win over environment",
			settings: fullSource("settings"),
			env:      fullSource("env"),
			field:    FieldVersionID,
			want:     "settings-version",
		},
		{
			name:  "environment fills the gaps",
			args:  Source{FieldAuthoringKey: "from-args"},
			env:   fullSource("env"),
			field: FieldEndpointBase,
			want:  "https://env.api.cognitive.microsoft.com",
		},
		{
			name:     "empty value does not shadow a lower source",
			args:     Source{FieldAuthoringKey: ""},
			settings: Source{FieldAuthoringKey: "from-settings"},
			env:      fullSource("env"),
			field:    FieldAuthoringKey,
			want:     "from-settings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Resolve(tt.args, tt.settings, tt.env)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			got := map[string]string{
				FieldAuthoringKey: cfg.AuthoringKey,
				FieldEndpointBase: cfg.EndpointBase,
				FieldAppID:        cfg.AppID,
				FieldVersionID:    cfg.VersionID,
			}[tt.field]
			if got != tt.want {
				t.Errorf("Resolve() %s = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestResolvePerFieldIndependence(t *testing.T) {
	// Each field follows its own precedence chain; mixing sources must not
	// leak one field's winner into another.
	args := Source{FieldAuthoringKey: "arg-key"}
	settings := Source{FieldEndpointBase: "https://settings.example.com", FieldAppID: "settings-app"}
	env := fullSource("env")

	cfg, err := Resolve(args, settings, env)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.AuthoringKey != "arg-key" {
		t.Errorf("AuthoringKey = %q, want %q", cfg.AuthoringKey, "arg-key")
	}
	if cfg.EndpointBase != "https://settings.example.com" {
		t.Errorf("EndpointBase = %q, want settings value", cfg.EndpointBase)
	}
	if cfg.AppID != "settings-app" {
		t.Errorf("AppID = %q, want settings value", cfg.AppID)
	}
	if cfg.VersionID != "env-version" {
		t.Errorf("VersionID = %q, want environment value", cfg.VersionID)
	}
}

func TestResolveMissingFields(t *testing.T) {
	tests := []struct {
		name        string
		args        Source
		settings    Source
		env         Source
		wantMissing []string
	}{
		{
			name:        "everything missing",
			wantMissing: []string{FieldAuthoringKey, FieldEndpointBase, FieldAppID, FieldVersionID},
		},
		{
			name:        "single gap",
			args:        Source{FieldAuthoringKey: "key", FieldEndpointBase: "https://e", FieldAppID: "app"},
			wantMissing: []string{FieldVersionID},
		},
		{
			name:        "gaps across sources",
			args:        Source{FieldAuthoringKey: "key"},
			env:         Source{FieldVersionID: "0.1"},
			wantMissing: []string{FieldEndpointBase, FieldAppID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Resolve(tt.args, tt.settings, tt.env)
			if cfg != nil {
				t.Fatalf("Resolve() = %+v, want nil", cfg)
			}
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Resolve() error = %T, want *ConfigurationError", err)
			}
			if len(cfgErr.Missing) != len(tt.wantMissing) {
				t.Fatalf("Missing = %v, want %v", cfgErr.Missing, tt.wantMissing)
			}
			for i, field := range tt.wantMissing {
				if cfgErr.Missing[i] != field {
					t.Errorf("Missing[%d] = %q, want %q", i, cfgErr.Missing[i], field)
				}
				if !strings.Contains(cfgErr.Error(), field) {
					t.Errorf("Error() %q does not name %q", cfgErr.Error(), field)
				}
			}
		})
	}
}

func TestResolveDoesNotMutateSources(t *testing.T) {
	args := Source{FieldAuthoringKey: "key"}
	settings := Source{FieldEndpointBase: "https://e"}
	env := fullSource("env")

	if _, err := Resolve(args, settings, env); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if len(args) != 1 || args[FieldAuthoringKey] != "key" {
		t.Errorf("args mutated: %v", args)
	}
	if len(settings) != 1 || settings[FieldEndpointBase] != "https://e" {
		t.Errorf("settings mutated: %v", settings)
	}
	if len(env) != 4 {
		t.Errorf("env mutated: %v", env)
	}
}

func TestEnvSource(t *testing.T) {
	values := map[string]string{
		"LUIS_AUTHORING_KEY": "env-key",
		"LUIS_APP_ID":        "env-app",
	}
	src := EnvSource(func(name string) string { return values[name] })

	if src[FieldAuthoringKey] != "env-key" {
		t.Errorf("authoringKey = %q, want %q", src[FieldAuthoringKey], "env-key")
	}
	if src[FieldAppID] != "env-app" {
		t.Errorf("appId = %q, want %q", src[FieldAppID], "env-app")
	}
	if _, ok := src[FieldEndpointBase]; ok {
		t.Error("unset variable produced a source entry")
	}
	if _, ok := src[FieldVersionID]; ok {
		t.Error("unset variable produced a source entry")
	}
}

func TestEndpointForRegion(t *testing.T) {
	got := EndpointForRegion(" westus ")
	want := "https://westus.api.cognitive.microsoft.com"
	if got != want {
		t.Errorf("EndpointForRegion() = %q, want %q", got, want)
	}
}

func TestConfigurationErrorMissingField(t *testing.T) {
	err := &ConfigurationError{Missing: []string{FieldAppID}}
	if !err.MissingField(FieldAppID) {
		t.Error("MissingField(appId) = false, want true")
	}
	if err.MissingField(FieldAuthoringKey) {
		t.Error("MissingField(authoringKey) = true, want false")
	}
}
