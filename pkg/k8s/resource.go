package k8s

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// ObjectMeta is the subset of object metadata the console reads.
type ObjectMeta struct {
	Name              string            `json:"name,omitempty"`
	Namespace         string            `json:"namespace,omitempty"`
	UID               string            `json:"uid,omitempty"`
	Labels            map[string]string `json:"labels,omitempty"`
	Annotations       map[string]string `json:"annotations,omitempty"`
	CreationTimestamp time.Time         `json:"creationTimestamp,omitzero"`
}

// Resource is a cluster object as returned by the API. Metadata is decoded
// eagerly; kind-specific fields are decoded on demand with Decode.
type Resource struct {
	APIVersion string     `json:"apiVersion,omitempty"`
	Kind       string     `json:"kind,omitempty"`
	Metadata   ObjectMeta `json:"metadata"`

	raw json.RawMessage
}

// UnmarshalJSON keeps the raw document for later Decode calls.
func (r *Resource) UnmarshalJSON(data []byte) error {
	type header Resource
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return err
	}
	*r = Resource(h)
	r.raw = bytes.Clone(data)
	return nil
}

// MarshalJSON returns the original document when the resource was decoded
// from one, otherwise the header fields only.
func (r Resource) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	type header Resource
	return json.Marshal(header(r))
}

// Decode unmarshals the full object into v.
func (r Resource) Decode(v any) error {
	if len(r.raw) == 0 {
		return errors.Join(ErrDecode, errors.New("resource has no raw document"))
	}
	if err := json.Unmarshal(r.raw, v); err != nil {
		return errors.Join(ErrDecode, err)
	}
	return nil
}

// NewResource converts any JSON-encodable object into a Resource.
func NewResource(v any) (Resource, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Resource{}, errors.Join(ErrDecode, err)
	}
	var r Resource
	if err := json.Unmarshal(data, &r); err != nil {
		return Resource{}, errors.Join(ErrDecode, err)
	}
	return r, nil
}

// MustResource is like NewResource but panics on error.
func MustResource(v any) Resource {
	r, err := NewResource(v)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Resource) GetName() string                   { return r.Metadata.Name }
func (r Resource) GetNamespace() string              { return r.Metadata.Namespace }
func (r Resource) GetLabels() map[string]string      { return r.Metadata.Labels }
func (r Resource) GetAnnotations() map[string]string { return r.Metadata.Annotations }

// Phase returns status.phase, or "" when the object has none.
func (r Resource) Phase() string {
	var obj struct {
		Status struct {
			Phase string `json:"phase"`
		} `json:"status"`
	}
	if len(r.raw) == 0 || json.Unmarshal(r.raw, &obj) != nil {
		return ""
	}
	return obj.Status.Phase
}

// list is the envelope of a collection response.
type list struct {
	Items []Resource `json:"items"`
}
