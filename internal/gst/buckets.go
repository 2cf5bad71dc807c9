package gst

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OrderedBuckets maps dimension keys to buckets and remembers first-seen
// insertion order. Order has no bearing on the amounts; it keeps report
// output stable.
type OrderedBuckets[K DimensionKey, V any] struct {
	keys  []K
	items map[K]*V
}

// NewOrderedBuckets returns an empty mapping.
func NewOrderedBuckets[K DimensionKey, V any]() *OrderedBuckets[K, V] {
	return &OrderedBuckets[K, V]{items: make(map[K]*V)}
}

// Len returns the number of keys.
func (o *OrderedBuckets[K, V]) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order.
func (o *OrderedBuckets[K, V]) Keys() []K {
	if o == nil {
		return nil
	}
	out := make([]K, len(o.keys))
	copy(out, o.keys)
	return out
}

// Get returns the bucket for k.
func (o *OrderedBuckets[K, V]) Get(k K) (*V, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.items[k]
	return v, ok
}

// Upsert returns the bucket for k, creating it with init when absent. The
// boolean reports whether the bucket was created.
func (o *OrderedBuckets[K, V]) Upsert(k K, init func() *V) (*V, bool) {
	if v, ok := o.items[k]; ok {
		return v, false
	}
	v := init()
	o.items[k] = v
	o.keys = append(o.keys, k)
	return v, true
}

// Each calls fn for every bucket in insertion order.
func (o *OrderedBuckets[K, V]) Each(fn func(K, *V)) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		fn(k, o.items[k])
	}
}

// MarshalJSON encodes the mapping as a JSON object in insertion order.
func (o *OrderedBuckets[K, V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k.String())
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(o.items[k])
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the document's key order.
func (o *OrderedBuckets[K, V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("buckets: expected object, got %v", tok)
	}

	o.keys = nil
	o.items = make(map[K]*V)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("buckets: expected string key, got %v", tok)
		}
		k, err := parseKey[K](name)
		if err != nil {
			return err
		}
		v := new(V)
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("buckets: key %q: %w", name, err)
		}
		if _, dup := o.items[k]; dup {
			return fmt.Errorf("buckets: duplicate key %q", name)
		}
		o.items[k] = v
		o.keys = append(o.keys, k)
	}
	_, err = dec.Token()
	return err
}
