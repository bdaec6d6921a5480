package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
)

// invalidPermissionResponse is the uniform rejection used for both "no
// such entity" and "caller lacks the required role". The two cases are
// deliberately indistinguishable apart from the echoed id, so existence
// is never leaked.
func invalidPermissionResponse(requestedLevel string, levelID interface{}) gin.H {
	return gin.H{
		"invite-error": fmt.Sprintf("invalid invite permissions for requested %s", requestedLevel),
		"detail":       fmt.Sprintf("Can not invite user to company with ID %v", levelID),
	}
}

// orderedFields decodes a flat JSON object preserving the order the
// client submitted its keys. The change log records rows in submission
// order, so the usual map decoding is not enough.
func orderedFields(body io.Reader) ([]string, map[string]json.RawMessage, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected a JSON object")
	}

	var order []string
	values := make(map[string]json.RawMessage)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected an object key")
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}

		if _, seen := values[key]; !seen {
			order = append(order, key)
		}
		values[key] = raw
	}

	return order, values, nil
}
