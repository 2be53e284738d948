package types

import (
	"encoding/json"
	"fmt"
)

// ObjectRef identifies one version of an on-chain object. A new
// version of the same object is a distinct logical entity; an
// observed ObjectRef never changes.
type ObjectRef struct {
	ObjectID ObjectID `json:"objectId"`
	Version  string   `json:"version"`
	Digest   Digest   `json:"digest"`
}

// ObjectOwner describes who or what owns an object. Exactly one
// field is set.
type ObjectOwner struct {
	AddressOwner *Address  `json:"AddressOwner,omitempty"`
	ObjectOwner  *ObjectID `json:"ObjectOwner,omitempty"`
	// Shared carries the initial shared version for shared objects.
	Shared *SharedOwner `json:"Shared,omitempty"`
	// Immutable is true for frozen objects.
	Immutable bool `json:"-"`
}

// SharedOwner is the ownership record of a shared object.
type SharedOwner struct {
	InitialSharedVersion string `json:"initial_shared_version"`
}

// MarshalJSON renders immutable ownership as the bare string
// "Immutable"; the other variants marshal as a one-field object.
func (o ObjectOwner) MarshalJSON() ([]byte, error) {
	if o.Immutable {
		return json.Marshal("Immutable")
	}
	type plain ObjectOwner
	return json.Marshal(plain(o))
}

func (o *ObjectOwner) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "Immutable" {
			return fmt.Errorf("unknown owner variant %q", s)
		}
		*o = ObjectOwner{Immutable: true}
		return nil
	}
	type plain ObjectOwner
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*o = ObjectOwner(p)
	return nil
}

// ObjectData is the canonical view of one object version.
type ObjectData struct {
	ObjectID ObjectID `json:"objectId"`
	Version  string   `json:"version"`
	Digest   Digest   `json:"digest"`
	// Type is the fully-qualified Move type of the object, when the
	// backend was asked to include it.
	Type  *string      `json:"type,omitempty"`
	Owner *ObjectOwner `json:"owner,omitempty"`
	// Content is the backend-rendered object contents, left opaque.
	Content             json.RawMessage `json:"content,omitempty"`
	PreviousTransaction *Digest         `json:"previousTransaction,omitempty"`
	StorageRebate       *string         `json:"storageRebate,omitempty"`
}

// Ref returns the ObjectRef for this object version.
func (d *ObjectData) Ref() ObjectRef {
	return ObjectRef{ObjectID: d.ObjectID, Version: d.Version, Digest: d.Digest}
}

// ObjectResponse wraps the result of an object lookup. Exactly one
// of Data and Error is set: a missing or deleted object is reported
// in-band rather than as a transport failure.
type ObjectResponse struct {
	Data  *ObjectData          `json:"data,omitempty"`
	Error *ObjectResponseError `json:"error,omitempty"`
}

// ObjectResponseError describes why an object lookup returned no
// data.
type ObjectResponseError struct {
	Code     string    `json:"code"`
	ObjectID *ObjectID `json:"object_id,omitempty"`
	Version  *string   `json:"version,omitempty"`
	Digest   *Digest   `json:"digest,omitempty"`
}

// ObjectDataOptions selects which optional fields the backend should
// populate on returned objects.
type ObjectDataOptions struct {
	ShowType                bool `json:"showType,omitempty"`
	ShowOwner               bool `json:"showOwner,omitempty"`
	ShowContent             bool `json:"showContent,omitempty"`
	ShowPreviousTransaction bool `json:"showPreviousTransaction,omitempty"`
	ShowStorageRebate       bool `json:"showStorageRebate,omitempty"`
}

// ObjectResponseQuery filters and shapes an owned-object listing.
type ObjectResponseQuery struct {
	// Filter is a backend-native object filter document, left opaque.
	Filter  json.RawMessage    `json:"filter,omitempty"`
	Options *ObjectDataOptions `json:"options,omitempty"`
}
