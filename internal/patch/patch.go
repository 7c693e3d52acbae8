// Package patch implements the sparse partial-update structure applied to
// room documents. A patch maps dotted field paths to replacement values, plus
// array-append operations; applying one patch is a single atomic document
// write at the storage layer. Writes to disjoint paths never clobber each
// other, matching last-write-wins-per-path semantics.
package patch

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Patch struct {
	sets    map[string]any
	appends map[string][]any
	// order keeps set application deterministic for tests.
	order []string
}

func New() *Patch {
	return &Patch{
		sets:    make(map[string]any),
		appends: make(map[string][]any),
	}
}

// Set records a replacement value at a dotted path, e.g.
// "hostState.mood". Intermediate objects are created on apply. A nil value
// stores JSON null (used to clear a pending interaction).
func (p *Patch) Set(path string, value any) *Patch {
	if _, ok := p.sets[path]; !ok {
		p.order = append(p.order, path)
	}
	p.sets[path] = value
	return p
}

// Append records items to union onto the array at path (e.g. "logs",
// "messages"). Appends to the same array from concurrent patches never lose
// entries because each patch is applied under the document lock.
func (p *Patch) Append(path string, items ...any) *Patch {
	p.appends[path] = append(p.appends[path], items...)
	return p
}

// IsEmpty reports whether the patch carries no operations.
func (p *Patch) IsEmpty() bool {
	return len(p.sets) == 0 && len(p.appends) == 0
}

// Apply mutates doc in place. Values are normalized through JSON so that
// struct payloads land in the document exactly as they would serialize.
func (p *Patch) Apply(doc map[string]any) error {
	for _, path := range p.order {
		normalized, err := normalize(p.sets[path])
		if err != nil {
			return fmt.Errorf("patch set %q: %w", path, err)
		}
		if err := setPath(doc, path, normalized); err != nil {
			return fmt.Errorf("patch set %q: %w", path, err)
		}
	}
	for path, items := range p.appends {
		existing, err := arrayAt(doc, path)
		if err != nil {
			return fmt.Errorf("patch append %q: %w", path, err)
		}
		for _, item := range items {
			normalized, err := normalize(item)
			if err != nil {
				return fmt.Errorf("patch append %q: %w", path, err)
			}
			existing = append(existing, normalized)
		}
		if err := setPath(doc, path, existing); err != nil {
			return fmt.Errorf("patch append %q: %w", path, err)
		}
	}
	return nil
}

// normalize round-trips a value through JSON into plain maps/slices.
func normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func setPath(doc map[string]any, path string, value any) error {
	parts := strings.Split(path, ".")
	current := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part]
		if !ok || next == nil {
			child := make(map[string]any)
			current[part] = child
			current = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("segment %q is not an object", part)
		}
		current = child
	}
	current[parts[len(parts)-1]] = value
	return nil
}

func arrayAt(doc map[string]any, path string) ([]any, error) {
	parts := strings.Split(path, ".")
	var current any = doc
	for _, part := range parts {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("segment %q is not an object", part)
		}
		current = obj[part]
		if current == nil {
			return []any{}, nil
		}
	}
	arr, ok := current.([]any)
	if !ok {
		return nil, fmt.Errorf("value at %q is not an array", path)
	}
	return arr, nil
}
