// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"

	herr "harmonizer/cli/internal/errors"
)

// kindHints are follow-up suggestions shown under a failed action.
var kindHints = map[herr.Kind]string{
	herr.NetworkError:     "check --api-host or HARMONIZER_API_HOST",
	herr.SchemaPullFailed: "check the connection with: harmonizer dbinfo",
	herr.EmptyMessage:     "nothing to send",
}

// PresentError formats err for display under action. Credentials in the
// message are masked and known error kinds get a hint line.
func PresentError(action string, err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("%s: %s", action, Mask(err.Error()))
	if hint, ok := kindHints[herr.KindOf(err)]; ok {
		msg += "\n  hint: " + hint
	}
	return msg
}
