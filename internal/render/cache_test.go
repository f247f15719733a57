package render

import (
	"sync"
	"testing"
)

func TestPoolsKeyedByOptions(t *testing.T) {
	ClearCache()
	defer ClearCache()

	base := DefaultOptions()
	if renderers.pool(base) != renderers.pool(DefaultOptions()) {
		t.Error("equal options should share a pool")
	}
	if renderers.pool(base) == renderers.pool(base.WithWidth(100)) {
		t.Error("different widths should get different pools")
	}
	if renderers.pool(base) == renderers.pool(base.WithStyle("nord")) {
		t.Error("different styles should get different pools")
	}
	if CacheSize() != 3 {
		t.Errorf("CacheSize() = %d, want 3", CacheSize())
	}
}

func TestBorrowAndRelease(t *testing.T) {
	ClearCache()
	defer ClearCache()

	opts := DefaultOptions()
	r1, err := renderers.borrow(opts)
	if err != nil || r1 == nil {
		t.Fatalf("borrow() = %v, %v", r1, err)
	}
	renderers.release(opts, r1)
	renderers.release(opts, nil)

	r2, err := renderers.borrow(opts)
	if err != nil || r2 == nil {
		t.Fatalf("borrow() = %v, %v", r2, err)
	}
	renderers.release(opts, r2)

	if _, err := renderers.borrow(opts.WithStyle("/nonexistent/style.json")); err == nil {
		t.Error("borrow should report the style error")
	}
}

func TestPoolConcurrency(t *testing.T) {
	ClearCache()
	defer ClearCache()

	styles := []string{"dark", "tokyonight", "notty"}
	var wg sync.WaitGroup
	errs := make(chan error, 30)

	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			opts := DefaultOptions().WithStyle(styles[i%len(styles)])
			if _, err := Markdown("**reply** number", opts); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent render failed: %v", err)
	}
	if CacheSize() != len(styles) {
		t.Errorf("CacheSize() = %d, want %d", CacheSize(), len(styles))
	}
}

func TestClearCache(t *testing.T) {
	if _, err := Markdown("x", DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	ClearCache()
	if CacheSize() != 0 {
		t.Errorf("CacheSize() = %d after clear", CacheSize())
	}
}
