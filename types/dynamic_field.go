package types

import "encoding/json"

// DynamicFieldName is the typed name of a dynamic field.
type DynamicFieldName struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// DynamicFieldInfo describes one dynamic field attached to a parent
// object.
type DynamicFieldInfo struct {
	Name       DynamicFieldName `json:"name"`
	BcsName    string           `json:"bcsName,omitempty"`
	Type       string           `json:"type"` // "DynamicField" or "DynamicObject"
	ObjectType string           `json:"objectType"`
	ObjectID   ObjectID         `json:"objectId"`
	Version    string           `json:"version"`
	Digest     Digest           `json:"digest"`
}
