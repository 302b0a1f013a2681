package memrepo

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/xano-community/xano-mcp/internal/domain"
)

// InMemoryToolRegistry provides an in-memory implementation of the
// usecase.ToolRegistry port. The registered tool set is written once at
// startup and read by the admin listing; nothing is persisted.
type InMemoryToolRegistry struct {
	mu     sync.RWMutex
	tools  map[string]domain.ToolInfo
	logger *slog.Logger
}

// NewInMemoryToolRegistry creates a new in-memory registry.
func NewInMemoryToolRegistry(logger *slog.Logger) *InMemoryToolRegistry {
	return &InMemoryToolRegistry{
		tools:  make(map[string]domain.ToolInfo),
		logger: logger.With("component", "mem_registry"),
	}
}

// Save stores the given tool descriptors, keyed by name. Entries with an
// empty name are skipped.
func (r *InMemoryToolRegistry) Save(ctx context.Context, tools []domain.ToolInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for i, tool := range tools {
		if tool.Name == "" {
			r.logger.Warn("Skipping tool with empty name during save.", slog.Int("index", i))
			continue
		}
		r.tools[tool.Name] = tool
		count++
	}
	r.logger.Info("Saved tool descriptors.", slog.Int("count", count), slog.Int("total_tools", len(r.tools)))
	return nil
}

// List returns all registered tools, sorted by name so the admin listing is
// stable.
func (r *InMemoryToolRegistry) List(ctx context.Context) ([]domain.ToolInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]domain.ToolInfo, 0, len(r.tools))
	for _, tool := range r.tools {
		list = append(list, tool)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	r.logger.Debug("Listed tools from registry.", slog.Int("count", len(list)))
	return list, nil
}
