package lang

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ardnew/macro/log"
)

func TestParseReader(t *testing.T) {
	ClearCache()

	ctx := context.Background()
	source := `Hello <?php echo model.name; ?>`

	first, err := ParseReader(ctx, strings.NewReader(source))
	if err != nil {
		t.Fatalf("ParseReader() error = %v", err)
	}

	second, err := ParseReader(ctx, strings.NewReader(source))
	if err != nil {
		t.Fatalf("ParseReader() error = %v", err)
	}

	if first == second || first.String() != second.String() {
		t.Error("ParseReader() should return equal copies for identical input")
	}

	direct, err := ScanString(ctx, source)
	if err != nil {
		t.Fatalf("ScanString() error = %v", err)
	}

	if direct.String() != first.String() {
		t.Error("ScanString() should share the cache with ParseReader()")
	}

	ClearCache()

	third, err := ScanString(ctx, source)
	if err != nil {
		t.Fatalf("ScanString() error = %v", err)
	}

	if third.String() != first.String() {
		t.Errorf("rescanned program differs: %q vs %q", third, first)
	}
}

func TestScanString_CachesErrors(t *testing.T) {
	ClearCache()

	ctx := context.Background()

	for range 2 {
		prog, err := ScanString(ctx, "<? open")
		if !errors.Is(err, ErrUnterminatedCodeBlock) {
			t.Fatalf("ScanString() error = %v, want ErrUnterminatedCodeBlock", err)
		}

		if prog != nil {
			t.Errorf("ScanString() returned program %+v with error", prog)
		}
	}
}

func TestScanString_Concurrent(t *testing.T) {
	ClearCache()

	ctx := context.Background()
	source := strings.Repeat("row <? echo i ?>\n", 64)

	var (
		wg    sync.WaitGroup
		progs = make([]*Program, 16)
	)

	for i := range progs {
		wg.Go(func() {
			prog, err := ScanString(ctx, source)
			if err != nil {
				t.Errorf("ScanString() error = %v", err)
			}

			progs[i] = prog
		})
	}

	wg.Wait()

	for i, prog := range progs {
		if prog.String() != progs[0].String() {
			t.Errorf("goroutine %d got a different program", i)
		}
	}
}

func TestScanString_ReturnsCopies(t *testing.T) {
	ClearCache()

	var buf bytes.Buffer

	logger := log.Make(&buf,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false),
	)

	ctx := context.Background()
	source := "a<? echo 1 ?>b"

	first, err := ScanString(ctx, source, WithLogger(logger))
	if err != nil {
		t.Fatalf("ScanString() error = %v", err)
	}

	want := first.String()

	first.Instructions[0] = RunCode("tampered")
	first.Instructions = first.Instructions[:1]

	second, err := ScanString(ctx, source, WithLogger(logger))
	if err != nil {
		t.Fatalf("ScanString() error = %v", err)
	}

	if got := second.String(); got != want {
		t.Errorf("cached program changed by caller: got %q, want %q", got, want)
	}

	out := buf.String()

	if n := strings.Count(out, `"scan complete"`); n != 1 {
		t.Errorf("scanned %d times, want 1:\n%s", n, out)
	}

	if !strings.Contains(out, `"cache_hit":true`) {
		t.Errorf("second lookup not logged as a cache hit:\n%s", out)
	}
}

func TestSourceKey(t *testing.T) {
	t.Parallel()

	if SourceKey([]byte("a")) == SourceKey([]byte("b")) {
		t.Error("SourceKey() collision for distinct input")
	}

	if SourceKey([]byte("same")) != SourceKey([]byte("same")) {
		t.Error("SourceKey() not stable")
	}
}

func BenchmarkScan(b *testing.B) {
	source := strings.Repeat(`<li class="item"><? echo item.name ?></li>`+"\n", 256)

	for b.Loop() {
		if _, err := Scan(source); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkScanString_Cached(b *testing.B) {
	ClearCache()

	ctx := context.Background()
	source := strings.Repeat(`<li class="item"><? echo item.name ?></li>`+"\n", 256)

	for b.Loop() {
		if _, err := ScanString(ctx, source); err != nil {
			b.Fatal(err)
		}
	}
}
