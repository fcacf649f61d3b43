package tool

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/carlmei/promptcache/core/cost"
	"github.com/carlmei/promptcache/providers/ai"
)

// stubTool satisfies GenericTool with a canned response.
type stubTool struct {
	name  string
	reply string
}

func (s *stubTool) ToolInfo() ai.ToolDescription {
	return ai.ToolDescription{Name: s.name, Description: "stub"}
}

func (s *stubTool) Call(context.Context, string) (string, error) { return s.reply, nil }

func (s *stubTool) GetMetrics() *cost.ToolMetrics { return nil }

func newStubCatalog(names ...string) *Catalog {
	catalog := NewCatalog()
	for _, name := range names {
		catalog.AddTools(&stubTool{name: name, reply: "{}"})
	}
	return catalog
}

func TestNewCatalogWithTools(t *testing.T) {
	if size := NewCatalog().Size(); size != 0 {
		t.Errorf("new catalog size = %d", size)
	}

	catalog := NewCatalogWithTools(
		&stubTool{name: "ExaSearch"},
		&stubTool{name: "TextArchiveFetch"},
	)
	if catalog.Size() != 2 || !catalog.Has("ExaSearch") || !catalog.Has("TextArchiveFetch") {
		t.Errorf("catalog = %v", catalog.Tools())
	}
}

func TestCatalog_GetIsCaseInsensitive(t *testing.T) {
	search := &stubTool{name: "ExaSearch", reply: "{}"}
	catalog := NewCatalogWithTools(search)

	for _, query := range []string{"ExaSearch", "exasearch", "EXASEARCH", "eXaSeArCh"} {
		got, ok := catalog.Get(query)
		if !ok || got != search {
			t.Errorf("Get(%q) = %v, %v", query, got, ok)
		}
	}

	if _, ok := catalog.Get("SerperSearch"); ok {
		t.Error("Get should miss for an unregistered tool")
	}
}

func TestCatalog_AddToolsReplacesSameName(t *testing.T) {
	catalog := NewCatalog()
	v1 := &stubTool{name: "ExaSearch", reply: "v1"}
	v2 := &stubTool{name: "EXASEARCH", reply: "v2"}

	catalog.AddTools(v1)
	catalog.AddTools(v2)

	if catalog.Size() != 1 {
		t.Fatalf("size = %d, want 1: names differing only in case replace", catalog.Size())
	}
	if got, _ := catalog.Get("exasearch"); got != v2 {
		t.Error("expected the later registration to win")
	}
}

func TestCatalog_RemoveAndClear(t *testing.T) {
	catalog := newStubCatalog("ExaSearch", "TextArchiveFetch", "DocumentExcerpt")

	if !catalog.Remove("exasearch") {
		t.Error("Remove should report true for a registered tool")
	}
	if catalog.Remove("exasearch") {
		t.Error("Remove should report false the second time")
	}
	if catalog.Size() != 2 {
		t.Errorf("size after remove = %d", catalog.Size())
	}

	catalog.Clear()
	if catalog.Size() != 0 || catalog.Has("TextArchiveFetch") {
		t.Error("expected empty catalog after Clear")
	}
}

func TestCatalog_ToolsReturnsCopy(t *testing.T) {
	catalog := newStubCatalog("ExaSearch")

	tools := catalog.Tools()
	delete(tools, "exasearch")

	if !catalog.Has("ExaSearch") {
		t.Error("mutating the returned map must not affect the catalog")
	}
}

func TestCatalog_Merge(t *testing.T) {
	base := newStubCatalog("ExaSearch")
	extra := newStubCatalog("TextArchiveFetch", "DocumentExcerpt")

	base.Merge(extra)

	if base.Size() != 3 {
		t.Errorf("merged size = %d", base.Size())
	}
	if extra.Size() != 2 {
		t.Errorf("source catalog changed, size = %d", extra.Size())
	}

	// Merge overwrites on name collision and tolerates nil.
	replacement := &stubTool{name: "ExaSearch", reply: "new"}
	base.Merge(NewCatalogWithTools(replacement))
	if got, _ := base.Get("ExaSearch"); got != replacement {
		t.Error("merge should overwrite colliding names")
	}
	base.Merge(nil)
	if base.Size() != 3 {
		t.Errorf("size after nil merge = %d", base.Size())
	}
}

func TestCatalog_CloneIsIndependent(t *testing.T) {
	original := newStubCatalog("ExaSearch")
	clone := original.Clone()

	clone.AddTools(&stubTool{name: "TextArchiveFetch"})
	original.Remove("ExaSearch")

	if original.Has("TextArchiveFetch") {
		t.Error("adding to the clone leaked into the original")
	}
	if !clone.Has("ExaSearch") {
		t.Error("removing from the original leaked into the clone")
	}
}

func TestCatalog_Validate(t *testing.T) {
	if warnings := newStubCatalog("ExaSearch", "TextArchiveFetch").Validate(); warnings != nil {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}

func TestCatalog_Descriptions(t *testing.T) {
	catalog := newStubCatalog("TextArchiveFetch", "DocumentExcerpt", "ExaSearch")

	descriptions := catalog.Descriptions()
	if len(descriptions) != 3 {
		t.Fatalf("got %d descriptions", len(descriptions))
	}
	// Sorted by lowercased name so request payloads are deterministic.
	want := []string{"DocumentExcerpt", "ExaSearch", "TextArchiveFetch"}
	for i, description := range descriptions {
		if description.Name != want[i] {
			t.Errorf("descriptions[%d] = %q, want %q", i, description.Name, want[i])
		}
	}

	if got := NewCatalog().Descriptions(); len(got) != 0 {
		t.Errorf("empty catalog descriptions = %v", got)
	}
}

func TestCatalog_ConcurrentAccess(t *testing.T) {
	catalog := NewCatalog()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			catalog.AddTools(&stubTool{name: fmt.Sprintf("tool-%d", n%8)})
		}(i)
		go func(n int) {
			defer wg.Done()
			catalog.Has(fmt.Sprintf("tool-%d", n%8))
			catalog.Descriptions()
			catalog.Size()
		}(i)
	}
	wg.Wait()

	if catalog.Size() > 8 {
		t.Errorf("size = %d, want at most 8 distinct names", catalog.Size())
	}
}
