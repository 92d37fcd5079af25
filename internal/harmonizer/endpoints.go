// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package harmonizer

import (
	"net/url"
	"strings"
)

// DefaultBaseURL is used when no api host is configured.
const DefaultBaseURL = "http://localhost:8000"

// Endpoints contains REST API endpoint paths of the harmonizer service.
type Endpoints struct {
	InitMessage   string `koanf:"init_message" json:"init_message" yaml:"init_message"`
	Chat          string `koanf:"chat" json:"chat" yaml:"chat"`
	ChatStream    string `koanf:"chat_stream" json:"chat_stream" yaml:"chat_stream"`
	Visualization string `koanf:"visualization" json:"visualization" yaml:"visualization"`
	MetaModel     string `koanf:"metamodel" json:"metamodel" yaml:"metamodel"`
	Health        string `koanf:"health" json:"health" yaml:"health"`
}

// DefaultEndpoints returns the paths served by a stock harmonizer deployment.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		InitMessage:   "/init-message",
		Chat:          "/chat",
		ChatStream:    "/chat/stream",
		Visualization: "/visualization",
		MetaModel:     "/metamodel",
		Health:        "/health",
	}
}

// WithDefaults fills every empty path from DefaultEndpoints.
func (e Endpoints) WithDefaults() Endpoints {
	d := DefaultEndpoints()
	pick := func(v, def string) string {
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	}
	return Endpoints{
		InitMessage:   pick(e.InitMessage, d.InitMessage),
		Chat:          pick(e.Chat, d.Chat),
		ChatStream:    pick(e.ChatStream, d.ChatStream),
		Visualization: pick(e.Visualization, d.Visualization),
		MetaModel:     pick(e.MetaModel, d.MetaModel),
		Health:        pick(e.Health, d.Health),
	}
}

// resourcePath joins a collection path and an escaped resource id.
func resourcePath(base, id string) string {
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(id)
}

// NormalizeBaseURL trims trailing slashes and adds an http scheme to bare hosts.
// An empty value yields DefaultBaseURL.
func NormalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultBaseURL
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	return strings.TrimRight(raw, "/")
}
