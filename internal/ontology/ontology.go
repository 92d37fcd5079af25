// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package ontology holds the domain model the harmonizer produces from a schema:
// entity types with their properties and the relation types between them.
package ontology

import (
	"encoding/json"
	"fmt"
	"math"
)

// Property is one attribute of an entity type.
type Property struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool   `json:"required" yaml:"required"`
}

// EntityType is a kind of thing in the domain, e.g. User.
type EntityType struct {
	Name        string     `json:"name" yaml:"name"`
	DisplayName string     `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Properties  []Property `json:"properties" yaml:"properties"`
}

// RelationType connects source entity types to target entity types.
type RelationType struct {
	Name              string   `json:"name" yaml:"name"`
	DisplayName       string   `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	Description       string   `json:"description,omitempty" yaml:"description,omitempty"`
	SourceEntityTypes []string `json:"source_entity_types" yaml:"source_entity_types"`
	TargetEntityTypes []string `json:"target_entity_types" yaml:"target_entity_types"`
	Cardinality       string   `json:"cardinality,omitempty" yaml:"cardinality,omitempty"`
}

// Ontology is a complete generated model.
type Ontology struct {
	Name              string         `json:"name" yaml:"name"`
	Description       string         `json:"description,omitempty" yaml:"description,omitempty"`
	Domain            string         `json:"domain" yaml:"domain"`
	EntityTypes       []EntityType   `json:"entity_types" yaml:"entity_types"`
	RelationTypes     []RelationType `json:"relation_types" yaml:"relation_types"`
	CompletenessScore float64        `json:"completeness_score" yaml:"completeness_score"`
}

// ModelInfo is the summary shown for a generated model.
type ModelInfo struct {
	Name          string `json:"name" yaml:"name"`
	Domain        string `json:"domain" yaml:"domain"`
	EntityCount   int    `json:"entityCount" yaml:"entityCount"`
	RelationCount int    `json:"relationCount" yaml:"relationCount"`
	// Completeness is CompletenessScore as a rounded percentage.
	Completeness int `json:"completeness" yaml:"completeness"`
}

// CalculateModelInfo summarizes o.
func CalculateModelInfo(o Ontology) ModelInfo {
	return ModelInfo{
		Name:          o.Name,
		Domain:        o.Domain,
		EntityCount:   len(o.EntityTypes),
		RelationCount: len(o.RelationTypes),
		Completeness:  int(math.Round(o.CompletenessScore * 100)),
	}
}

// Parse decodes an ontology document. A metamodel response that wraps the
// ontology in a "data", "metamodel" or "ontology" field is unwrapped.
func Parse(raw []byte) (Ontology, error) {
	var o Ontology
	if err := json.Unmarshal(raw, &o); err != nil {
		return Ontology{}, fmt.Errorf("decode ontology: %w", err)
	}
	if o.Name != "" || len(o.EntityTypes) > 0 {
		return o, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err == nil {
		for _, key := range []string{"data", "metamodel", "ontology"} {
			if inner, ok := wrapper[key]; ok {
				return Parse(inner)
			}
		}
	}
	return o, nil
}

// EntityNames returns entity type names in order.
func (o Ontology) EntityNames() []string {
	out := make([]string, 0, len(o.EntityTypes))
	for _, e := range o.EntityTypes {
		out = append(out, e.Name)
	}
	return out
}
