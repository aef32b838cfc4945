package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_DeduplicatesConcurrentCalls(t *testing.T) {
	var flight SingleFlight
	var executions atomic.Int32
	release := make(chan struct{})

	const callers = 8
	results := make(chan any, callers)

	var wg, entered sync.WaitGroup
	entered.Add(callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entered.Done()
			val, err, _ := flight.Do("scoreboard:app-1:step-1", func() (any, error) {
				executions.Add(1)
				<-release
				return "computed", nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			results <- val
		}()
	}

	// Wait until every caller has started (and, having started, runs until it
	// blocks inside Do) before releasing the in-flight call; otherwise on a
	// single CPU the callers run one after another and nothing is deduplicated.
	entered.Wait()
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	if got := executions.Load(); got != 1 {
		t.Fatalf("expected one execution, got %d", got)
	}
	for val := range results {
		if val != "computed" {
			t.Fatalf("unexpected shared value: %v", val)
		}
	}
}

func TestSingleFlight_SequentialCallsRunSeparately(t *testing.T) {
	var flight SingleFlight
	calls := 0

	for i := 0; i < 3; i++ {
		_, _, shared := flight.Do("key", func() (any, error) {
			calls++
			return nil, nil
		})
		if shared {
			t.Fatalf("sequential call %d should not be shared", i)
		}
	}
	if calls != 3 {
		t.Fatalf("expected 3 executions, got %d", calls)
	}
}
