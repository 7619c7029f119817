package repositories

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"resumewise/resume-analyzer/internal/models"
)

type memoryKVRepository struct {
	mu      sync.RWMutex
	entries map[string]map[string]models.KVEntry
}

// NewMemoryKVRepository returns a process-local KVRepository.
func NewMemoryKVRepository() KVRepository {
	return &memoryKVRepository{entries: make(map[string]map[string]models.KVEntry)}
}

func (m *memoryKVRepository) Get(_ context.Context, owner, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[owner][key]
	if !ok {
		return "", false, nil
	}
	return entry.Value, true, nil
}

func (m *memoryKVRepository) Set(_ context.Context, owner, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ns, ok := m.entries[owner]
	if !ok {
		ns = make(map[string]models.KVEntry)
		m.entries[owner] = ns
	}

	now := time.Now()
	entry, exists := ns[key]
	if !exists {
		entry = models.KVEntry{Owner: owner, Key: key, CreatedAt: now}
	}
	entry.Value = value
	entry.UpdatedAt = now
	ns[key] = entry
	return nil
}

func (m *memoryKVRepository) List(_ context.Context, owner, pattern string, resolveValues bool) ([]models.KVItem, error) {
	matcher, err := globRegexp(pattern)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	entries := make([]models.KVEntry, 0, len(m.entries[owner]))
	for _, e := range m.entries[owner] {
		if matcher.MatchString(e.Key) {
			entries = append(entries, e)
		}
	}
	m.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].Key < entries[j].Key
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	items := make([]models.KVItem, 0, len(entries))
	for _, e := range entries {
		item := models.KVItem{Key: e.Key}
		if resolveValues {
			item.Value = e.Value
		}
		items = append(items, item)
	}
	return items, nil
}

func globRegexp(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		pattern = "*"
	}
	var b strings.Builder
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}
