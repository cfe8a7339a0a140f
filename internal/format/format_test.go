package format

import (
	"strings"
	"testing"

	"github.com/yriveiro/opencode-python-docs/internal/docservice"
	"github.com/yriveiro/opencode-python-docs/internal/models"
	"github.com/yriveiro/opencode-python-docs/internal/searchindex"
)

func testDoc(body string) *models.FetchedDoc {
	return &models.FetchedDoc{
		Path: "library/asyncio",
		Body: body,
		AnchorIndex: &models.AnchorIndex{
			Anchors:     []models.Anchor{},
			TotalLength: len(body),
		},
	}
}

func TestDocument_PaginationWindow(t *testing.T) {
	doc := testDoc("ABCDEFGHIJ")

	out := Document(doc, "", 0, 5)
	if !strings.Contains(out, "ABCDE") {
		t.Errorf("missing window content: %q", out)
	}
	if strings.Contains(out, "FGHIJ") {
		t.Errorf("content past window leaked: %q", out)
	}
	if !strings.Contains(out, "offset=5") {
		t.Errorf("missing continuation hint: %q", out)
	}

	out = Document(doc, "", 5, 100)
	if !strings.Contains(out, "FGHIJ") {
		t.Errorf("missing tail content: %q", out)
	}
	if strings.Contains(out, "ABCDE") {
		t.Errorf("content before offset leaked: %q", out)
	}
	if strings.Contains(out, "continue with offset") {
		t.Errorf("continuation hint on final window: %q", out)
	}
}

func TestDocument_OffsetPastEnd(t *testing.T) {
	out := Document(testDoc("short"), "", 100, 10)
	if !strings.Contains(out, "past the end") {
		t.Errorf("out = %q", out)
	}
}

func TestDocument_UnknownAnchorFallsBackToWindow(t *testing.T) {
	out := Document(testDoc("ABCDEFGHIJ"), "missing-section", 0, 5)
	if !strings.Contains(out, `Anchor "missing-section" not found`) {
		t.Errorf("missing anchor notice: %q", out)
	}
	if !strings.Contains(out, "no anchors") {
		t.Errorf("missing anchor listing: %q", out)
	}
	if !strings.Contains(out, "ABCDE") {
		t.Errorf("default window missing: %q", out)
	}
}

func TestDocument_MatchingAnchorReturnsSection(t *testing.T) {
	doc := testDoc("intro SECTION BODY outro")
	doc.AnchorIndex.Anchors = []models.Anchor{
		{Name: "section", Heading: "Section", Level: 2, StartOffset: 6, EndOffset: 18},
	}

	out := Document(doc, "section", 0, 0)
	if !strings.Contains(out, "SECTION BODY") {
		t.Errorf("section content missing: %q", out)
	}
	if strings.Contains(out, "outro") {
		t.Errorf("content outside anchor leaked: %q", out)
	}
}

func TestDocument_CacheTag(t *testing.T) {
	doc := testDoc("body")
	doc.FromCache = true
	if out := Document(doc, "", 0, 0); !strings.Contains(out, "(cached)") {
		t.Errorf("missing cache tag: %q", out)
	}
}

func TestSearchResults_List(t *testing.T) {
	res := docservice.FallbackResult{Results: []models.DocEntry{
		{Name: "asyncio.gather", Path: "asyncio/gather", Type: "asyncio"},
	}}
	out := SearchResults("gather", res)
	if !strings.Contains(out, "asyncio.gather (asyncio) — asyncio/gather") {
		t.Errorf("out = %q", out)
	}
}

func TestSearchResults_EmptyWithSuggestions(t *testing.T) {
	res := docservice.FallbackResult{
		FallbackUsed: true,
		TypeInference: &searchindex.TypeInferenceResult{
			Query:         "async stuff",
			InferredTypes: []string{"asyncio"},
			Confidence:    25,
		},
	}
	out := SearchResults("async stuff", res)
	if !strings.Contains(out, "No results") {
		t.Errorf("out = %q", out)
	}
	if !strings.Contains(out, "asyncio") {
		t.Errorf("suggestions missing: %q", out)
	}
}

func TestTypeSuggestions(t *testing.T) {
	out := TypeSuggestions(searchindex.TypeInferenceResult{
		Query:            "event loop",
		InferredTypes:    []string{"asyncio"},
		AlternativeTypes: []string{"tkinter"},
		MatchingKeywords: []string{"event", "loop"},
		Confidence:       30,
	})
	for _, want := range []string{"asyncio", "tkinter", "event, loop", "30/100"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}

	empty := TypeSuggestions(searchindex.TypeInferenceResult{Query: "zzz"})
	if !strings.Contains(empty, "No type suggestions") {
		t.Errorf("empty case = %q", empty)
	}
}
