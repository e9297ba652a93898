/*
Package conflate provides a keyed conflation engine: it absorbs a
high-frequency stream of keyed updates and republishes at most one update per
key per interval, always the most recently observed value, without losing the
final value for a key between flushes.

conflate is designed to be embedded within services that sit between a fast
producer and a slower consumer (market-data feeds fanning into a UI grid,
pub/sub handlers feeding a downstream aggregator), not run as a standalone
service.

# Basic Usage

Create an engine with a flush interval and subscribe to its output:

	engine, err := conflate.New[string, float64](100 * time.Millisecond)
	if err != nil {
	    return err
	}

	sub := engine.Subscribe(func(symbol string, price float64) {
	    grid.Update(symbol, price)
	})
	defer sub.Cancel()

	if err := engine.Start(ctx); err != nil {
	    return err
	}

Producers ingest from any goroutine:

	engine.Ingest("EURUSD", 1.0851)

Every interval the engine drains its buffer and delivers the latest value per
key to each subscriber. Bursts of updates to the same key collapse to a
single delivery. Stop performs one final drain so nothing in flight is lost:

	engine.Stop()

# Sources

Brokered producers can be bridged with a Source instead of calling Ingest
directly. The nats, redis, and file subpackages provide bridges; Consume
pumps any source into the engine:

	src := nats.New[Tick](conn, "ticks.>", conflate.DecodeJSON[Tick]())
	go engine.Consume(ctx, src)

# Observability

The engine emits capitan signals for lifecycle and delivery events:

	capitan.Hook(conflate.FlushDelivered, func(_ context.Context, e *capitan.Event) {
	    keys, _ := conflate.KeyFlushedKeys.From(e)
	    log.Printf("flushed %d keys", keys)
	})

A MetricsProvider can be attached with WithMetrics for counter integration,
and RecentErrors returns a bounded history of subscriber callback failures.

# Testing

Inject a fake clock for deterministic interval control:

	clock := clockz.NewFakeClock()
	engine, _ := conflate.New[string, int](time.Second, conflate.WithClock(clock))
	// ...
	clock.Advance(time.Second)
*/
package conflate
