package reassemble

import (
	"context"
	"sync"

	"github.com/shiryu-mmt/marketreplay/internal/obslog"
)

// Sourced tags one item with which redundant source delivered it and
// where it sits in that product's sequence.
type Sourced[T any] struct {
	Source    int
	ProductID string
	Sequence  uint64
	Data      T
}

// Broker fans in numSources redundant channels per product and merges
// them through a Buffer per product id, so callers downstream see one
// deduplicated, gap-reported stream regardless of how many raw
// connections are feeding it.
type Broker[T any] struct {
	numSources int
	buffers    map[string]*Buffer[T]
}

// NewBroker builds a broker expecting numSources redundant copies of
// every product's stream.
func NewBroker[T any](numSources int) *Broker[T] {
	return &Broker[T]{numSources: numSources, buffers: make(map[string]*Buffer[T])}
}

// bufferFor returns productID's buffer, creating it seeded from firstSeen
// the first time this product is observed. firstSeen is ignored once the
// buffer already exists.
func (br *Broker[T]) bufferFor(productID string, firstSeen uint64) *Buffer[T] {
	b, ok := br.buffers[productID]
	if !ok {
		b = NewBuffer[T](productID, br.numSources, firstSeen)
		br.buffers[productID] = b
	}
	return b
}

func fanIn[T any](ctx context.Context, chans []<-chan Sourced[T]) <-chan Sourced[T] {
	merged := make(chan Sourced[T])
	var wg sync.WaitGroup
	wg.Add(len(chans))
	for _, c := range chans {
		c := c
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case v, ok := <-c:
					if !ok {
						return
					}
					select {
					case merged <- v:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(merged)
	}()
	return merged
}

// Run merges sources, reassembles each product's sequence stream, and
// emits in-order items on the returned channel with gaps reported on the
// loss channel. Both channels close once every source channel closes.
func (br *Broker[T]) Run(ctx context.Context, sources []<-chan Sourced[T]) (<-chan T, <-chan Loss) {
	merged := fanIn(ctx, sources)
	out := make(chan T)
	losses := make(chan Loss)
	go func() {
		defer close(out)
		defer close(losses)
		for {
			select {
			case <-ctx.Done():
				return
			case sv, ok := <-merged:
				if !ok {
					br.drainAll(out, losses)
					return
				}
				buf := br.bufferFor(sv.ProductID, sv.Sequence)
				buf.Write(sv.Source, sv.Sequence, sv.Data)
				br.drainReady(buf, out, losses)
			}
		}
	}()
	return out, losses
}

func (br *Broker[T]) drainReady(buf *Buffer[T], out chan<- T, losses chan<- Loss) {
	for {
		data, loss, ready := buf.Read()
		switch {
		case ready:
			out <- data
		case loss != nil:
			obslog.LossesReported.WithLabelValues(loss.ProductID).Inc()
			losses <- *loss
		default:
			return
		}
	}
}

func (br *Broker[T]) drainAll(out chan<- T, losses chan<- Loss) {
	for _, buf := range br.buffers {
		br.drainReady(buf, out, losses)
	}
}
