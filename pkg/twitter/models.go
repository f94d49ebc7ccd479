package twitter

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Item is one timeline element exactly as the API returned it
type Item struct {
	Raw json.RawMessage
}

// MarshalJSON writes the payload unchanged
func (i Item) MarshalJSON() ([]byte, error) {
	if len(i.Raw) == 0 {
		return []byte("null"), nil
	}
	return i.Raw, nil
}

// apiErrors is the error envelope of a non-2xx response
type apiErrors struct {
	Errors []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
	Error string `json:"error"`
}

func (e apiErrors) message() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("%s (api code %d)", e.Errors[0].Message, e.Errors[0].Code)
	}
	return e.Error
}

// decodePage splits a response body into items. An array yields its elements,
// a search-style object yields its statuses, any other object is a single item.
func decodePage(body []byte) ([]Item, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	switch trimmed[0] {
	case '[':
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, err
		}
		return toItems(raws), nil
	case '{':
		var envelope struct {
			Statuses []json.RawMessage `json:"statuses"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, err
		}
		if envelope.Statuses != nil {
			return toItems(envelope.Statuses), nil
		}
		return []Item{{Raw: json.RawMessage(trimmed)}}, nil
	default:
		return nil, fmt.Errorf("unexpected JSON value starting with %q", trimmed[0])
	}
}

func toItems(raws []json.RawMessage) []Item {
	items := make([]Item, 0, len(raws))
	for _, r := range raws {
		items = append(items, Item{Raw: r})
	}
	return items
}
