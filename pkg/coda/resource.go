package coda

import (
	"fmt"
	"maps"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mitchellh/copystructure"
)

// ResourceType is the value of the "type" discriminator.
type ResourceType string

// Recognized resource types.
const (
	TypeDoc     ResourceType = "doc"
	TypeSection ResourceType = "section"
	TypeFolder  ResourceType = "folder"
	TypeTable   ResourceType = "table"
	TypeColumn  ResourceType = "column"
	TypeRow     ResourceType = "row"
	TypeFormula ResourceType = "formula"
	TypeControl ResourceType = "control"
	TypeUser    ResourceType = "user"
	TypeAPILink ResourceType = "apiLink"
)

// discriminatorKey is the JSON key every resource object must carry.
const discriminatorKey = "type"

// Resource is implemented by every decoded resource variant. The set of
// implementations is closed: DecodeResource is the only constructor.
type Resource interface {
	// Type returns the discriminator the resource was decoded from.
	Type() ResourceType
	// ID returns the resource id, or "" for kinds without one.
	ID() string
	// Href returns the API URL of the resource.
	Href() string
	// JSON returns a deep copy of the object the resource was decoded from.
	JSON() map[string]interface{}
	// Field looks up a snake_case field name through WireKey.
	Field(name string) (interface{}, bool)

	context() ResourceContext
}

// ResourceContext is the ambient state threaded through decoding: the client
// used for navigation and the document that owns the resource. Neither is
// owned by the resource.
type ResourceContext struct {
	Client Client
	Doc    *Doc
}

// resource holds the immutable JSON snapshot shared by every variant.
// Accessors read from it on demand; nothing is parsed up front.
type resource struct {
	json   map[string]interface{}
	client Client
	doc    *Doc
}

func (r *resource) JSON() map[string]interface{} {
	return cloneObject(r.json)
}

// Field returns a deep copy of the value stored under the wire key of name.
func (r *resource) Field(name string) (interface{}, bool) {
	value, ok := r.raw(name)
	if !ok {
		return nil, false
	}

	return cloneValue(value), true
}

// raw reads the stored value without copying. Callers must not mutate it.
func (r *resource) raw(name string) (interface{}, bool) {
	value, ok := r.json[WireKey(name)]

	return value, ok
}

func (r *resource) ID() string {
	return r.str("id")
}

func (r *resource) Href() string {
	return r.str("href")
}

func (r *resource) context() ResourceContext {
	return ResourceContext{Client: r.client, Doc: r.doc}
}

// Client returns the client the resource navigates with. It may be nil.
func (r *resource) Client() Client {
	return r.client
}

// Doc returns the owning doc, or nil for resources outside a doc.
func (r *resource) Doc() *Doc {
	return r.doc
}

func (r *resource) str(name string) string {
	value, ok := r.raw(name)
	if !ok {
		return ""
	}

	s, _ := value.(string)

	return s
}

func (r *resource) boolean(name string) bool {
	value, ok := r.raw(name)
	if !ok {
		return false
	}

	b, _ := value.(bool)

	return b
}

func (r *resource) integer(name string) int {
	value, ok := r.raw(name)
	if !ok {
		return 0
	}

	switch number := value.(type) {
	case float64:
		return int(number)
	case int:
		return number
	default:
		return 0
	}
}

func (r *resource) object(name string) map[string]interface{} {
	value, ok := r.raw(name)
	if !ok {
		return nil
	}

	obj, _ := value.(map[string]interface{})

	return obj
}

func (r *resource) timestamp(name string) (time.Time, error) {
	raw := r.str(name)
	if raw == "" {
		return time.Time{}, nil
	}

	parsed, err := dateparse.ParseStrict(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", WireKey(name), err)
	}

	return parsed, nil
}

// embedded decodes a nested resource object found under the given field.
// It returns nil without error when the field is absent or null.
func (r *resource) embedded(name string) (Resource, error) {
	value, ok := r.raw(name)
	if !ok || value == nil {
		return nil, nil
	}

	return DecodeValue(value, r.context())
}

// embeddedList decodes a list of nested resource objects.
func (r *resource) embeddedList(name string) ([]Resource, error) {
	value, ok := r.raw(name)
	if !ok || value == nil {
		return nil, nil
	}

	values, isList := value.([]interface{})
	if !isList {
		return nil, malformed("%s is not a list", WireKey(name))
	}

	resources := make([]Resource, 0, len(values))

	for index, item := range values {
		decoded, err := DecodeValue(item, r.context())
		if err != nil {
			return nil, fmt.Errorf("decoding %s[%d]: %w", WireKey(name), index, err)
		}

		resources = append(resources, decoded)
	}

	return resources, nil
}

func (r *resource) requireClient() error {
	if r.client == nil {
		return missingOption("client")
	}

	return nil
}

func (r *resource) requireDoc() error {
	if r.doc == nil {
		return missingOption("doc")
	}

	return nil
}

// cloneValue deep-copies a decoded JSON value so nested maps and slices are
// never shared between a resource and its callers.
func cloneValue(value interface{}) interface{} {
	switch value.(type) {
	case map[string]interface{}, []interface{}:
		copied, err := copystructure.Copy(value)
		if err != nil {
			return value
		}

		return copied
	default:
		return value
	}
}

func cloneObject(obj map[string]interface{}) map[string]interface{} {
	if obj == nil {
		return nil
	}

	copied, ok := cloneValue(obj).(map[string]interface{})
	if !ok {
		return maps.Clone(obj)
	}

	return copied
}
