package coda

import (
	"fmt"
)

// List envelope keys.
const (
	itemsKey        = "items"
	nextPageLinkKey = "nextPageLink"
)

// DecodeResource dispatches on the "type" discriminator of obj and returns the
// matching resource variant bound to rc. Doc-scoped kinds require rc.Doc.
func DecodeResource(obj map[string]interface{}, rc ResourceContext) (Resource, error) {
	if obj == nil {
		return nil, malformed("resource object is null")
	}

	rawType, ok := obj[discriminatorKey]
	if !ok {
		return nil, malformed("resource object has no %q field", discriminatorKey)
	}

	kind, ok := rawType.(string)
	if !ok {
		return nil, malformed("resource %q field is %T, not a string", discriminatorKey, rawType)
	}

	base := resource{json: cloneObject(obj), client: rc.Client, doc: rc.Doc}

	switch ResourceType(kind) {
	case TypeDoc:
		doc := &Doc{base}
		doc.doc = doc

		return doc, nil
	case TypeUser:
		return &User{base}, nil
	case TypeAPILink:
		return &APILink{base}, nil
	case TypeSection, TypeFolder, TypeTable, TypeColumn, TypeRow, TypeFormula, TypeControl:
		if rc.Doc == nil {
			return nil, fmt.Errorf("decoding %s: %w", kind, missingOption("doc"))
		}

		return decodeDocScoped(ResourceType(kind), base), nil
	default:
		return nil, &UnknownResourceTypeError{Type: kind}
	}
}

func decodeDocScoped(kind ResourceType, base resource) Resource {
	switch kind {
	case TypeSection:
		return &Section{base}
	case TypeFolder:
		return &Folder{base}
	case TypeTable:
		return &Table{base}
	case TypeColumn:
		return &Column{base}
	case TypeRow:
		return &Row{base}
	case TypeFormula:
		return &Formula{base}
	default:
		return &Control{base}
	}
}

// DecodeValue decodes an arbitrary decoded-JSON value that must be an object.
func DecodeValue(value interface{}, rc ResourceContext) (Resource, error) {
	obj, ok := value.(map[string]interface{})
	if !ok {
		return nil, malformed("expected a resource object, got %T", value)
	}

	return DecodeResource(obj, rc)
}

// DecodeList decodes a list envelope {"items": [...], "nextPageLink": ...}
// into a Page. A single undecodable item fails the whole page.
func DecodeList(value interface{}, rc ResourceContext) (*Page, error) {
	obj, ok := value.(map[string]interface{})
	if !ok {
		return nil, malformed("expected a list envelope, got %T", value)
	}

	rawItems, ok := obj[itemsKey]
	if !ok {
		return nil, malformed("list envelope has no %q field", itemsKey)
	}

	items, ok := rawItems.([]interface{})
	if !ok {
		return nil, malformed("list envelope %q field is %T, not a list", itemsKey, rawItems)
	}

	resources := make([]Resource, 0, len(items))

	for index, item := range items {
		decoded, err := DecodeValue(item, rc)
		if err != nil {
			return nil, fmt.Errorf("decoding item %d: %w", index, err)
		}

		resources = append(resources, decoded)
	}

	var nextPageLink string

	switch link := obj[nextPageLinkKey].(type) {
	case nil:
	case string:
		nextPageLink = link
	default:
		return nil, malformed("list envelope %q field is %T, not a string", nextPageLinkKey, link)
	}

	return NewPage(resources, nextPageLink, rc), nil
}

// As converts a decoded resource to the concrete variant T, failing with
// ErrMalformedResponse when the service returned a different kind.
func As[T Resource](res Resource) (T, error) {
	if res == nil {
		var zero T

		return zero, malformed("expected %T, got no resource", zero)
	}

	typed, ok := res.(T)
	if !ok {
		var zero T

		return zero, malformed("expected %T, got %s", zero, res.Type())
	}

	return typed, nil
}
