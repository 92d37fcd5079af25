// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package ddl

import (
	"encoding/json"

	herr "harmonizer/cli/internal/errors"
)

// Report is the wire form of a validation outcome. Exactly one of the success
// fields or Error is populated, selected by IsValid.
type Report struct {
	IsValid      bool        `json:"isValid" yaml:"isValid"`
	Tables       []TableInfo `json:"tables,omitempty" yaml:"tables,omitempty"`
	TableCount   int         `json:"tableCount,omitempty" yaml:"tableCount,omitempty"`
	IndexCount   int         `json:"indexCount,omitempty" yaml:"indexCount,omitempty"`
	TotalColumns int         `json:"totalColumns,omitempty" yaml:"totalColumns,omitempty"`
	Message      string      `json:"message,omitempty" yaml:"message,omitempty"`
	Error        string      `json:"error,omitempty" yaml:"error,omitempty"`
	Kind         herr.Kind   `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// NewReport converts the return values of Validate into a Report.
func NewReport(res *Result, err error) Report {
	if err != nil {
		return Report{Error: err.Error(), Kind: herr.KindOf(err)}
	}
	if res == nil {
		return Report{Error: "no result", Kind: herr.InternalParseError}
	}
	return Report{
		IsValid:      true,
		Tables:       res.Tables,
		TableCount:   res.TableCount,
		IndexCount:   res.IndexCount,
		TotalColumns: res.TotalColumns,
		Message:      res.Message,
	}
}

// Check runs Validate and wraps the outcome as a Report.
func Check(sql string) Report { return NewReport(Validate(sql)) }

type validReport struct {
	IsValid      bool        `json:"isValid" yaml:"isValid"`
	Tables       []TableInfo `json:"tables" yaml:"tables"`
	TableCount   int         `json:"tableCount" yaml:"tableCount"`
	IndexCount   int         `json:"indexCount" yaml:"indexCount"`
	TotalColumns int         `json:"totalColumns" yaml:"totalColumns"`
	Message      string      `json:"message" yaml:"message"`
}

type invalidReport struct {
	IsValid bool      `json:"isValid" yaml:"isValid"`
	Error   string    `json:"error" yaml:"error"`
	Kind    herr.Kind `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// wire returns the variant that matches IsValid.
func (r Report) wire() any {
	if r.IsValid {
		return validReport{true, r.Tables, r.TableCount, r.IndexCount, r.TotalColumns, r.Message}
	}
	return invalidReport{false, r.Error, r.Kind}
}

// MarshalJSON emits only the fields of the populated variant.
func (r Report) MarshalJSON() ([]byte, error) { return json.Marshal(r.wire()) }

// MarshalYAML emits only the fields of the populated variant.
func (r Report) MarshalYAML() (any, error) { return r.wire(), nil }
