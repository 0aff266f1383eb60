package microdata

import (
	"github.com/aleksaelezovic/microdata/pkg/htmldoc"
	"github.com/aleksaelezovic/microdata/pkg/rdf"
)

// Future is the pending result of ParseAsync.
type Future struct {
	done    chan struct{}
	triples []*rdf.Triple
	err     error
}

// ParseAsync starts Parse in a new goroutine.
func (p *Parser) ParseAsync(markup, base string) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.triples, f.err = p.Parse(markup, base)
	}()
	return f
}

// Done is closed once the run has finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the run has finished and returns its outcome.
func (f *Future) Wait() ([]*rdf.Triple, error) {
	<-f.done
	return f.triples, f.err
}

// EventType identifies the kind of a stream Event.
type EventType int

const (
	EventTriple EventType = iota
	EventEnd
	EventError
)

func (t EventType) String() string {
	switch t {
	case EventTriple:
		return "data"
	case EventEnd:
		return "end"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is one notification of a stream: a triple, the end of the stream or
// the error that ended it.
type Event struct {
	Type   EventType
	Triple *rdf.Triple
	Err    error
}

// Stream runs the extraction in a new goroutine and sends one EventTriple per
// delivered triple followed by exactly one EventEnd or EventError. The
// channel is closed afterwards. Callers must drain the channel.
func (p *Parser) Stream(markup, base string) <-chan Event {
	events := make(chan Event, 16)
	go func() {
		defer close(events)

		doc, err := htmldoc.Parse(markup, base)
		if err != nil {
			events <- Event{Type: EventError, Err: err}
			return
		}

		err = p.walk(doc, nil, func(t *rdf.Triple) bool {
			events <- Event{Type: EventTriple, Triple: t}
			return true
		})
		if err != nil {
			events <- Event{Type: EventError, Err: err}
			return
		}
		events <- Event{Type: EventEnd}
	}()
	return events
}
