package htmlnode

import "strings"

// Attribute is a single HTML attribute. A nil Value renders as a bare key.
type Attribute struct {
	Key   string
	Value *string
}

// Attr creates an attribute with a value
func Attr(key, value string) Attribute {
	return Attribute{Key: key, Value: &value}
}

// Flag creates a valueless attribute, e.g. `disabled`
func Flag(key string) Attribute {
	return Attribute{Key: key}
}

// Attributes keeps attributes in insertion order, which is also render order.
type Attributes []Attribute

// Render returns attributes as they appear inside of the opening tag.
// Result is empty if there are no attributes, otherwise it starts with a space.
func (a Attributes) Render() string {
	if len(a) == 0 {
		return ""
	}
	var b strings.Builder
	for _, attr := range a {
		b.WriteByte(' ')
		b.WriteString(attr.Key)
		if attr.Value != nil {
			b.WriteString(`="`)
			b.WriteString(*attr.Value)
			b.WriteByte('"')
		}
	}
	return b.String()
}

// Get returns value of the first attribute with the given key
func (a Attributes) Get(key string) (value string, ok bool) {
	for _, attr := range a {
		if attr.Key == key {
			if attr.Value == nil {
				return "", true
			}
			return *attr.Value, true
		}
	}
	return "", false
}

func (a Attributes) equal(b Attributes) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key != b[i].Key || !equalPtr(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
