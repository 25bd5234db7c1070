// Package bench fires the same GET many times in parallel and summarizes
// the latencies.
//
// Each request goes through the client as usual, so each one opens and
// closes its own socket. Latencies of successful requests are recorded in an
// HDR histogram in microseconds.
package bench

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/frankli0324/go-rawget/internal/model"
	"github.com/frankli0324/go-rawget/internal/obs"
)

const (
	histMin     = 1
	histMax     = 3600000000 // 1 hour in microseconds
	histSigFigs = 3
)

// Getter is satisfied by *rawget.Client.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

type Options struct {
	Requests    int
	Concurrency int
	Logger      obs.Logger
}

type Result struct {
	Requests int
	Errors   int
	// ErrorsByKind counts failures by [model.ErrorKind] name, "other" for
	// anything that isn't a *model.Error.
	ErrorsByKind map[string]int
	Bytes        int64
	Elapsed      time.Duration

	P50, P90, P99, Max, Mean time.Duration
}

// RequestsPerSecond is computed over the wall time of the whole run.
func (r *Result) RequestsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Requests) / r.Elapsed.Seconds()
}

type recorder struct {
	mu     sync.Mutex
	hist   *hdrhistogram.Histogram
	result Result
}

// record counts one finished request. The returned error comes from the
// histogram, never from the request.
func (r *recorder) record(d time.Duration, n int, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result.Requests++
	if err != nil {
		r.result.Errors++
		r.result.ErrorsByKind[kindOf(err)]++
		return nil
	}
	r.result.Bytes += int64(n)

	us := d.Microseconds()
	if us < histMin {
		us = histMin
	}
	if us > histMax {
		us = histMax
	}
	// RecordValue is not safe for concurrent use
	if err := r.hist.RecordValue(us); err != nil {
		return fmt.Errorf("record latency %dus: %w", us, err)
	}
	return nil
}

func kindOf(err error) string {
	var e *model.Error
	if errors.As(err, &e) {
		return e.Kind.String()
	}
	return "other"
}

// Run issues opts.Requests GETs to url from opts.Concurrency workers.
// Cancelling ctx stops handing out new requests, the ones in flight are
// still counted.
func Run(ctx context.Context, g Getter, url string, opts Options) (*Result, error) {
	if opts.Requests < 1 {
		return nil, fmt.Errorf("bench: request count must be positive, got %d", opts.Requests)
	}
	workers := opts.Concurrency
	if workers < 1 {
		workers = 1
	}
	if workers > opts.Requests {
		workers = opts.Requests
	}
	log := obs.With(obs.OrNop(opts.Logger), "bench: ")

	rec := &recorder{
		hist:   hdrhistogram.New(histMin, histMax, histSigFigs),
		result: Result{ErrorsByKind: map[string]int{}},
	}
	jobs := make(chan struct{})
	var wg sync.WaitGroup

	start := time.Now()
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for range jobs {
				t := time.Now()
				raw, err := g.Get(ctx, url)
				if err != nil {
					log.Logf(obs.Debug, "worker %d: %v", id, err)
				}
				if herr := rec.record(time.Since(t), len(raw), err); herr != nil {
					log.Logf(obs.Warn, "worker %d: %v", id, herr)
				}
			}
		}(i)
	}

feed:
	for i := 0; i < opts.Requests; i++ {
		select {
		case jobs <- struct{}{}:
		case <-ctx.Done():
			log.Logf(obs.Warn, "stopped after %d of %d requests: %v", i, opts.Requests, ctx.Err())
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	res := rec.result
	res.Elapsed = time.Since(start)
	h := rec.hist
	if h.TotalCount() > 0 {
		res.P50 = micros(h.ValueAtQuantile(50))
		res.P90 = micros(h.ValueAtQuantile(90))
		res.P99 = micros(h.ValueAtQuantile(99))
		res.Max = micros(h.Max())
		res.Mean = time.Duration(h.Mean() * float64(time.Microsecond))
	}
	return &res, nil
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}
