package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Memory implements Store as an in-memory path tree. It backs the offline
// mode, the seeder, and tests; semantics mirror the REST client so the two
// are interchangeable behind the Store interface.
type Memory struct {
	mu   sync.RWMutex
	root *memNode
}

// memNode is one node of the document tree. A node either holds a leaf
// document or child nodes, never both.
type memNode struct {
	value    json.RawMessage
	children map[string]*memNode
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{root: &memNode{}}
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// lookup walks the tree without creating nodes. Callers hold the lock.
func (m *Memory) lookup(path string) *memNode {
	n := m.root
	for _, part := range splitPath(path) {
		child, ok := n.children[part]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

// ensure walks the tree creating intermediate nodes. Callers hold the lock.
func (m *Memory) ensure(path string) *memNode {
	n := m.root
	for _, part := range splitPath(path) {
		if n.children == nil {
			n.children = make(map[string]*memNode)
		}
		child, ok := n.children[part]
		if !ok {
			child = &memNode{}
			n.children[part] = child
		}
		n = child
		// Descending through a leaf turns it into a branch.
		n.value = nil
	}
	return n
}

// subtreeJSON renders a node as its JSON document: the leaf value, or an
// object of child key to subtree.
func subtreeJSON(n *memNode) (json.RawMessage, error) {
	if n.value != nil {
		return n.value, nil
	}
	if len(n.children) == 0 {
		return nil, nil
	}
	obj := make(map[string]json.RawMessage, len(n.children))
	for key, child := range n.children {
		sub, err := subtreeJSON(child)
		if err != nil {
			return nil, err
		}
		if sub != nil {
			obj[key] = sub
		}
	}
	return json.Marshal(obj)
}

func (m *Memory) Get(ctx context.Context, path string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := m.lookup(path)
	if n == nil {
		return nil, fmt.Errorf("get %s: %w", path, ErrNotFound)
	}
	doc, err := subtreeJSON(n)
	if err != nil {
		return nil, fmt.Errorf("get %s: rendering subtree: %w", path, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("get %s: %w", path, ErrNotFound)
	}
	return doc, nil
}

func (m *Memory) GetAll(ctx context.Context, path string) ([]KeyedDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := m.lookup(path)
	if n == nil || len(n.children) == 0 {
		return []KeyedDocument{}, nil
	}
	docs := make([]KeyedDocument, 0, len(n.children))
	for key, child := range n.children {
		doc, err := subtreeJSON(child)
		if err != nil {
			return nil, fmt.Errorf("get_all %s: rendering %s: %w", path, key, err)
		}
		if doc == nil {
			continue
		}
		docs = append(docs, KeyedDocument{Key: key, Document: doc})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Key < docs[j].Key })
	return docs, nil
}

func (m *Memory) Put(ctx context.Context, path string, doc any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("put %s: encoding document: %w", path, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.ensure(path)
	n.value = payload
	n.children = nil
	return nil
}

func (m *Memory) Post(ctx context.Context, path string, doc any) (string, error) {
	key := pushKey()
	if err := m.Put(ctx, strings.Trim(path, "/")+"/"+key, doc); err != nil {
		return "", err
	}
	return key, nil
}

func (m *Memory) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	parts := splitPath(path)
	if len(parts) == 0 {
		m.root = &memNode{}
		return nil
	}
	parent := m.lookup(strings.Join(parts[:len(parts)-1], "/"))
	if parent == nil {
		return nil
	}
	delete(parent.children, parts[len(parts)-1])
	return nil
}

func (m *Memory) ListChildKeys(ctx context.Context, path string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := m.lookup(path)
	if n == nil {
		return []string{}, nil
	}
	keys := make([]string, 0, len(n.children))
	for key := range n.children {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// pushKey returns a server-style generated child key.
func pushKey() string {
	return "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
}
