package ff

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/with-logic/fast-foward/cache"
	"github.com/with-logic/fast-foward/filecache"
)

// fetcher exercises the error-returning (asynchronous-failure) shape.
type fetcher struct {
	Fetch func(ctx context.Context, id string) (string, error)
}

// failStore errors on every write and never hits; caching must degrade to a
// no-op around it.
type failStore struct{}

func (failStore) Has(context.Context, string) bool        { return false }
func (failStore) Get(context.Context, string) (any, bool) { return nil, false }
func (failStore) Set(context.Context, string, any) error {
	return errors.New("backend down")
}

func TestMemoized_SuccessIsCached(t *testing.T) {
	var calls atomic.Int64
	f := Wrap(fetcher{Fetch: func(ctx context.Context, id string) (string, error) {
		calls.Add(1)
		return "value:" + id, nil
	}})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		v, err := f.Fetch(ctx, "42")
		if err != nil {
			t.Fatalf("Fetch returned error: %v", err)
		}
		if v != "value:42" {
			t.Errorf("Fetch = %q", v)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("invocations = %d, want 1", calls.Load())
	}
}

func TestMemoized_FailuresNeverCached(t *testing.T) {
	var calls atomic.Int64
	boom := errors.New("boom")
	f := Wrap(fetcher{Fetch: func(ctx context.Context, id string) (string, error) {
		calls.Add(1)
		return "", fmt.Errorf("attempt %d: %w", calls.Load(), boom)
	}})

	ctx := context.Background()
	_, err1 := f.Fetch(ctx, "42")
	_, err2 := f.Fetch(ctx, "42")

	if calls.Load() != 2 {
		t.Errorf("failing call should be retried, invocations = %d, want 2", calls.Load())
	}
	// Errors pass through unchanged, wrapping intact.
	if !errors.Is(err1, boom) || !errors.Is(err2, boom) {
		t.Errorf("errors not propagated unchanged: %v, %v", err1, err2)
	}
	if err1.Error() == err2.Error() {
		t.Error("second error should come from a fresh invocation")
	}
}

func TestMemoized_FailureThenSuccess(t *testing.T) {
	var calls atomic.Int64
	f := Wrap(fetcher{Fetch: func(ctx context.Context, id string) (string, error) {
		if calls.Add(1) == 1 {
			return "", errors.New("transient")
		}
		return "recovered", nil
	}})

	ctx := context.Background()
	if _, err := f.Fetch(ctx, "42"); err == nil {
		t.Fatal("first call should fail")
	}
	v, err := f.Fetch(ctx, "42")
	if err != nil || v != "recovered" {
		t.Fatalf("second call = (%q, %v)", v, err)
	}

	// The success is cached; the failure never was.
	f.Fetch(ctx, "42")
	if calls.Load() != 2 {
		t.Errorf("invocations = %d, want 2", calls.Load())
	}
}

func TestMemoized_ContextExcludedFromKey(t *testing.T) {
	var calls atomic.Int64
	f := Wrap(fetcher{Fetch: func(ctx context.Context, id string) (string, error) {
		calls.Add(1)
		return "v", nil
	}})

	type ctxKey struct{}
	f.Fetch(context.Background(), "42")
	f.Fetch(context.WithValue(context.Background(), ctxKey{}, "other"), "42")

	if calls.Load() != 1 {
		t.Errorf("calls differing only in context should share a key, invocations = %d", calls.Load())
	}
}

func TestMemoized_CacheFailureDoesNotBlockResult(t *testing.T) {
	var calls atomic.Int64
	calc := Wrap(calculator{Add: newCountingAdd(&calls)}, WithStore(failStore{}))

	if got := calc.Add(2, 3); got != 5 {
		t.Errorf("Add = %d, want 5", got)
	}
	if got := calc.Add(2, 3); got != 5 {
		t.Errorf("Add = %d, want 5", got)
	}
	// Every call misses and recomputes; none fails.
	if calls.Load() != 2 {
		t.Errorf("invocations = %d, want 2", calls.Load())
	}
}

func TestMemoized_UnserializableArgsBypassCache(t *testing.T) {
	var calls atomic.Int64
	target := struct {
		Apply func(fn func() int) int
	}{
		Apply: func(fn func() int) int {
			calls.Add(1)
			return fn()
		},
	}
	wrapped := Wrap(target)

	fn := func() int { return 7 }
	if got := wrapped.Apply(fn); got != 7 {
		t.Errorf("Apply = %d, want 7", got)
	}
	wrapped.Apply(fn)

	// Function arguments have no stable key; both calls execute.
	if calls.Load() != 2 {
		t.Errorf("invocations = %d, want 2", calls.Load())
	}
}

func TestMemoized_Variadic(t *testing.T) {
	var calls atomic.Int64
	target := struct {
		Sum func(nums ...int) int
	}{
		Sum: func(nums ...int) int {
			calls.Add(1)
			total := 0
			for _, n := range nums {
				total += n
			}
			return total
		},
	}
	wrapped := Wrap(target)

	if got := wrapped.Sum(1, 2, 3); got != 6 {
		t.Errorf("Sum = %d, want 6", got)
	}
	if got := wrapped.Sum(1, 2, 3); got != 6 {
		t.Errorf("cached Sum = %d, want 6", got)
	}
	if calls.Load() != 1 {
		t.Errorf("invocations = %d, want 1", calls.Load())
	}

	wrapped.Sum(1, 2)
	wrapped.Sum()
	if calls.Load() != 3 {
		t.Errorf("invocations = %d, want 3", calls.Load())
	}
}

func TestMemoized_MultipleResults(t *testing.T) {
	var calls atomic.Int64
	target := struct {
		List func(page int) ([]string, int, error)
	}{
		List: func(page int) ([]string, int, error) {
			calls.Add(1)
			return []string{"a", "b"}, 2, nil
		},
	}
	wrapped := Wrap(target)

	items, total, err := wrapped.List(1)
	if err != nil || total != 2 || len(items) != 2 {
		t.Fatalf("List = (%v, %d, %v)", items, total, err)
	}
	items, total, err = wrapped.List(1)
	if err != nil || total != 2 || len(items) != 2 {
		t.Fatalf("cached List = (%v, %d, %v)", items, total, err)
	}
	if calls.Load() != 1 {
		t.Errorf("invocations = %d, want 1", calls.Load())
	}
}

func TestMemoized_NoResults(t *testing.T) {
	var calls atomic.Int64
	target := struct {
		Warm func(name string)
	}{
		Warm: func(name string) { calls.Add(1) },
	}
	wrapped := Wrap(target)

	wrapped.Warm("index")
	wrapped.Warm("index")
	if calls.Load() != 1 {
		t.Errorf("result-less funcs still memoize execution, invocations = %d", calls.Load())
	}
}

// report exercises coercion of struct results read back from disk.
type report struct {
	Total int      `json:"total"`
	Tags  []string `json:"tags"`
}

type reportService struct {
	Build func(id string) (report, error)
}

func TestMemoized_FilecacheAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	newService := func(calls *atomic.Int64) reportService {
		return reportService{Build: func(id string) (report, error) {
			calls.Add(1)
			return report{Total: 5, Tags: []string{"x", "y"}}, nil
		}}
	}

	var firstCalls atomic.Int64
	store1, err := filecache.New(filecache.Config{Dir: dir, Namespace: "reports"})
	if err != nil {
		t.Fatal(err)
	}
	first := Wrap(newService(&firstCalls), WithStore(store1))
	got, err := first.Build("q1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Total != 5 || len(got.Tags) != 2 {
		t.Fatalf("Build = %+v", got)
	}
	if firstCalls.Load() != 1 {
		t.Fatalf("invocations = %d, want 1", firstCalls.Load())
	}

	// Simulate a later process: fresh backend instance, fresh wrapper.
	// The stored JSON shape must coerce back to the concrete result type.
	var secondCalls atomic.Int64
	store2, err := filecache.New(filecache.Config{Dir: dir, Namespace: "reports"})
	if err != nil {
		t.Fatal(err)
	}
	second := Wrap(newService(&secondCalls), WithStore(store2))
	got, err = second.Build("q1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Total != 5 || len(got.Tags) != 2 || got.Tags[0] != "x" {
		t.Errorf("restored Build = %+v", got)
	}
	if secondCalls.Load() != 0 {
		t.Errorf("persisted entry should serve the call, invocations = %d", secondCalls.Load())
	}
}

func TestMemoized_IllFittingEntryIsAMiss(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	serializer := cache.NewDefaultKeySerializer()

	key, err := serializer.SerializeKey("add", 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	// A foreign writer left something that is not a result list.
	_ = store.Set(ctx, key, "garbage")

	var calls atomic.Int64
	calc := Wrap(calculator{Add: newCountingAdd(&calls)}, WithStore(store))

	if got := calc.Add(2, 3); got != 5 {
		t.Errorf("Add = %d, want 5", got)
	}
	if calls.Load() != 1 {
		t.Errorf("ill-fitting entry should fall through to the original, invocations = %d", calls.Load())
	}

	// The recomputed result replaced the garbage.
	v, ok := store.Get(ctx, key)
	if !ok {
		t.Fatal("expected entry after recompute")
	}
	if _, isList := v.([]any); !isList {
		t.Errorf("expected result list in store, got %T", v)
	}
}

func BenchmarkWrapHit(b *testing.B) {
	calc := Wrap(calculator{Add: func(a, c int) int { return a + c }})
	calc.Add(1, 2)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		calc.Add(1, 2)
	}
}

func BenchmarkDirectCall(b *testing.B) {
	calc := calculator{Add: func(a, c int) int { return a + c }}

	for i := 0; i < b.N; i++ {
		calc.Add(1, 2)
	}
}
