package microdata_test

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleksaelezovic/microdata/pkg/htmldoc"
	"github.com/aleksaelezovic/microdata/pkg/microdata"
	"github.com/aleksaelezovic/microdata/pkg/rdf"
)

const personHTML = `<!DOCTYPE html><html><head><title>Test 001</title></head><body>` +
	`<p itemscope itemtype="http://schema.org/Person">This test created by <span itemprop="name">Ada</span>.</p>` +
	`</body></html>`

func nt(t *testing.T, input string) []*rdf.Triple {
	t.Helper()
	triples, err := rdf.ParseNTriples(input)
	require.NoError(t, err)
	return triples
}

func TestParse_Person(t *testing.T) {
	triples, err := microdata.Parse(personHTML, "http://example.org/")
	require.NoError(t, err)

	expected := nt(t, `_:b0 <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://schema.org/Person> .
_:b0 <http://schema.org/name> "Ada" .`)
	require.Len(t, triples, 2)
	for i := range expected {
		assert.True(t, expected[i].Equals(triples[i]), "triple %d: got %s", i, triples[i])
	}
}

func TestParse_ItemID(t *testing.T) {
	markup := `<div itemscope itemtype="http://schema.org/Person" itemid="http://example.org/ada">` +
		`<span itemprop="name">Ada</span></div>`

	triples, err := microdata.Parse(markup, "http://example.org/")
	require.NoError(t, err)
	require.NotEmpty(t, triples)

	for _, triple := range triples {
		assert.Equal(t, "<http://example.org/ada>", triple.Subject.String())
	}
}

func TestParse_RelativeLink(t *testing.T) {
	markup := `<div itemscope itemtype="http://schema.org/Thing"><a itemprop="url" href="/x">x</a></div>`

	triples, err := microdata.Parse(markup, "http://example.org/dir/page.html")
	require.NoError(t, err)
	require.Len(t, triples, 2)
	assert.Equal(t, "http://schema.org/url", triples[1].Predicate.(*rdf.NamedNode).IRI)
	assert.True(t, triples[1].Object.Equals(rdf.NewNamedNode("http://example.org/x")))
}

func TestParse_NonASCIIIRIs(t *testing.T) {
	markup := `<div itemscope itemtype="http://example.org/Persön" itemid="http://example.org/José">` +
		`<a itemprop="http://example.org/naïve" href="/café">x</a>` +
		`<a itemprop="http://example.org/raw" href="/caf%C3%A9">y</a></div>`

	triples, err := microdata.Parse(markup, "http://example.org/dir/")
	require.NoError(t, err)

	expected := nt(t, `<http://example.org/José> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://example.org/Persön> .
<http://example.org/José> <http://example.org/naïve> <http://example.org/café> .
<http://example.org/José> <http://example.org/raw> <http://example.org/caf%C3%A9> .`)
	require.Len(t, triples, len(expected))
	for i := range expected {
		assert.True(t, expected[i].Equals(triples[i]), "triple %d: got %s", i, triples[i])
	}
}

func TestEmptyInput_AllStyles(t *testing.T) {
	p := microdata.NewParser()

	t.Run("parse", func(t *testing.T) {
		triples, err := p.Parse("", "")
		assert.ErrorIs(t, err, htmldoc.ErrEmptyDocument)
		assert.Nil(t, triples)
	})

	t.Run("process", func(t *testing.T) {
		doneCalled := false
		err := p.Process("  \n", "", func(*rdf.Triple) {
			t.Error("handler must not be called")
		}, nil, func() { doneCalled = true })
		assert.ErrorIs(t, err, htmldoc.ErrEmptyDocument)
		assert.False(t, doneCalled)
	})

	t.Run("callback", func(t *testing.T) {
		var got error
		p.ParseCallback("", "", func(err error, _ []*rdf.Triple) {
			got = err
		})
		assert.ErrorIs(t, got, htmldoc.ErrEmptyDocument)
	})

	t.Run("future", func(t *testing.T) {
		_, err := p.ParseAsync("", "").Wait()
		assert.ErrorIs(t, err, htmldoc.ErrEmptyDocument)
	})

	t.Run("stream", func(t *testing.T) {
		var events []microdata.Event
		for ev := range p.Stream("", "") {
			events = append(events, ev)
		}
		require.Len(t, events, 1)
		assert.Equal(t, microdata.EventError, events[0].Type)
		assert.ErrorIs(t, events[0].Err, htmldoc.ErrEmptyDocument)
	})

	t.Run("iterator", func(t *testing.T) {
		count := 0
		for triple, err := range p.All("", "") {
			count++
			assert.Nil(t, triple)
			assert.ErrorIs(t, err, htmldoc.ErrEmptyDocument)
		}
		assert.Equal(t, 1, count)
	})
}

func TestProcess_FilterRejectsAll(t *testing.T) {
	delivered := 0
	filtered := 0
	doneCalled := false

	err := microdata.Process(personHTML, "", func(*rdf.Triple) {
		delivered++
	}, func(*rdf.Triple) bool {
		filtered++
		return false
	}, func() {
		doneCalled = true
	})

	require.NoError(t, err)
	assert.Zero(t, delivered)
	assert.Equal(t, 2, filtered)
	assert.True(t, doneCalled)
}

func TestProcess_ParserAndRunFilters(t *testing.T) {
	onlyNames := func(t *rdf.Triple) bool {
		return t.Predicate.(*rdf.NamedNode).IRI == "http://schema.org/name"
	}
	p := microdata.NewParser(microdata.WithFilter(onlyNames))

	var got []*rdf.Triple
	err := p.Process(personHTML, "", func(t *rdf.Triple) { got = append(got, t) }, nil, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, `"Ada"`, got[0].Object.String())

	got = nil
	err = p.Process(personHTML, "", func(t *rdf.Triple) { got = append(got, t) }, func(*rdf.Triple) bool { return false }, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParse_Deterministic(t *testing.T) {
	markup := `<div itemscope itemtype="http://schema.org/Person" itemref="org"><span itemprop="name">Ada</span></div>
<div itemscope itemtype="http://schema.org/Person" itemref="org"><span itemprop="name">Charles</span></div>
<div id="org" itemprop="worksFor" itemscope itemtype="http://schema.org/Organization"><span itemprop="name">AE</span></div>`

	first, err := microdata.Parse(markup, "")
	require.NoError(t, err)
	second, err := microdata.Parse(markup, "")
	require.NoError(t, err)

	assert.True(t, rdf.AreGraphsIsomorphic(first, second))
}

func TestParse_SharedReferenceKeepsIdentity(t *testing.T) {
	markup := `<div itemscope itemtype="http://schema.org/Person" itemref="org"><span itemprop="name">Ada</span></div>
<div itemscope itemtype="http://schema.org/Person" itemref="org"><span itemprop="name">Charles</span></div>
<div id="org" itemprop="worksFor" itemscope itemtype="http://schema.org/Organization"><span itemprop="name">AE</span></div>`

	triples, err := microdata.Parse(markup, "")
	require.NoError(t, err)

	var employers []rdf.Term
	for _, triple := range triples {
		if triple.Predicate.(*rdf.NamedNode).IRI == "http://schema.org/worksFor" {
			employers = append(employers, triple.Object)
		}
	}
	require.Len(t, employers, 2)
	assert.True(t, employers[0].Equals(employers[1]))
	assert.False(t, triples[0].Subject.Equals(employers[0]))
}

func TestParse_OrderInvariant(t *testing.T) {
	markup := `<div itemscope itemtype="http://schema.org/Person" itemref="second first">
  <span itemprop="name">Ada</span>
  <span itemprop="jobTitle">Mathematician</span>
</div>
<p id="first" itemprop="birthDate">1815</p>
<p id="second" itemprop="deathDate">1852</p>`

	triples, err := microdata.Parse(markup, "")
	require.NoError(t, err)

	var predicates []string
	for _, triple := range triples {
		predicates = append(predicates, triple.Predicate.(*rdf.NamedNode).IRI)
	}
	assert.Equal(t, []string{
		rdf.RDFType.IRI,
		"http://schema.org/name",
		"http://schema.org/jobTitle",
		"http://schema.org/deathDate",
		"http://schema.org/birthDate",
	}, predicates)
}

func TestParse_CycleTerminates(t *testing.T) {
	markup := `<div itemscope itemtype="http://schema.org/Person" itemref="a"><span itemprop="name">Root</span></div>
<div id="a" itemprop="knows" itemscope itemref="b"><span itemprop="name">A</span></div>
<div id="b" itemprop="knows" itemscope itemref="a"><span itemprop="name">B</span></div>`

	triples, err := microdata.Parse(markup, "")
	require.NoError(t, err)

	expected := nt(t, `_:r <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://schema.org/Person> .
_:r <http://schema.org/name> "Root" .
_:a <http://schema.org/name> "A" .
_:b <http://schema.org/name> "B" .
_:a <http://schema.org/knows> _:b .
_:r <http://schema.org/knows> _:a .`)
	assert.True(t, rdf.AreGraphsIsomorphic(expected, triples), "got:\n%s", rdf.SerializeTriples(triples))
}

func TestParse_SelfReference(t *testing.T) {
	markup := `<div id="me" itemscope itemtype="http://schema.org/Person" itemref="me"><span itemprop="name">Ada</span></div>`

	triples, err := microdata.Parse(markup, "")
	require.NoError(t, err)
	assert.Len(t, triples, 2)
}

func TestParse_InvalidIRIFailsRun(t *testing.T) {
	markup := `<div itemscope itemtype="http://schema.org/Thing"><a itemprop="url" href="http://[::1">x</a></div>`

	_, err := microdata.Parse(markup, "http://example.org/")
	assert.ErrorIs(t, err, htmldoc.ErrInvalidIRI)

	var events []microdata.Event
	for ev := range microdata.Stream(markup, "http://example.org/") {
		events = append(events, ev)
	}
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, microdata.EventError, last.Type)
	assert.True(t, errors.Is(last.Err, htmldoc.ErrInvalidIRI))
}

func TestStream_Events(t *testing.T) {
	var types []microdata.EventType
	for ev := range microdata.Stream(personHTML, "http://example.org/") {
		types = append(types, ev.Type)
		if ev.Type == microdata.EventTriple {
			assert.NotNil(t, ev.Triple)
		}
	}
	assert.Equal(t, []microdata.EventType{microdata.EventTriple, microdata.EventTriple, microdata.EventEnd}, types)
}

func TestParseAsync_Done(t *testing.T) {
	f := microdata.ParseAsync(personHTML, "")
	<-f.Done()
	triples, err := f.Wait()
	require.NoError(t, err)
	assert.Len(t, triples, 2)
}

func TestParseCallback(t *testing.T) {
	called := false
	microdata.ParseCallback(personHTML, "", func(err error, triples []*rdf.Triple) {
		called = true
		assert.NoError(t, err)
		assert.Len(t, triples, 2)
	})
	assert.True(t, called)
}

func TestAll_StopsEarly(t *testing.T) {
	count := 0
	for triple, err := range microdata.All(personHTML, "") {
		require.NoError(t, err)
		require.NotNil(t, triple)
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestTriples_FreshRunPerIteration(t *testing.T) {
	doc, err := htmldoc.Parse(personHTML, "")
	require.NoError(t, err)

	p := microdata.NewParser()
	var subjects []string
	for i := 0; i < 2; i++ {
		for triple, err := range p.Triples(doc) {
			require.NoError(t, err)
			subjects = append(subjects, triple.Subject.String())
		}
	}
	assert.Equal(t, []string{"_:b0", "_:b0", "_:b0", "_:b0"}, subjects)
}

func TestParser_ConcurrentRuns(t *testing.T) {
	p := microdata.NewParser()

	var wg sync.WaitGroup
	results := make([][]*rdf.Triple, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = p.Parse(personHTML, "http://example.org/")
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.True(t, rdf.AreGraphsIsomorphic(results[0], results[i]))
	}
}

func TestWithLogger_ReportsSkippedProperties(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := microdata.NewParser(microdata.WithLogger(logger))

	triples, err := p.Parse(`<div itemscope itemref="nowhere"><span itemprop="name">x</span></div>`, "")
	require.NoError(t, err)
	assert.Empty(t, triples)
	assert.Contains(t, buf.String(), "skipping property without vocabulary")
	assert.Contains(t, buf.String(), "skipping unknown itemref")
}
