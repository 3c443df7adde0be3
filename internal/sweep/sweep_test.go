package sweep

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tacogips/drvgen/internal/template/model"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func touch(t *testing.T, root string, rels ...string) {
	t.Helper()
	for _, rel := range rels {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCollect(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"Uart/Uart1.c",
		"Uart/Uart1.h",
		"Uart/README.md",
		"config/board.h",
		"Spi/config_spi/pins.c",
		"Spi/Spi1.C",
	)

	tests := []struct {
		name string
		opts WalkOptions
		want []string
	}{
		{
			name: "default extensions",
			want: []string{
				"Spi/Spi1.C",
				"Spi/config_spi/pins.c",
				"Uart/Uart1.c",
				"Uart/Uart1.h",
				"config/board.h",
			},
		},
		{
			name: "skip config subtrees",
			opts: WalkOptions{Skip: []string{"*config*"}},
			want: []string{"Spi/Spi1.C", "Uart/Uart1.c", "Uart/Uart1.h"},
		},
		{
			name: "headers only",
			opts: WalkOptions{Extensions: []string{".h"}},
			want: []string{"Uart/Uart1.h", "config/board.h"},
		},
		{
			name: "skip by relative path",
			opts: WalkOptions{Skip: []string{"Uart/*.h"}},
			want: []string{
				"Spi/Spi1.C",
				"Spi/config_spi/pins.c",
				"Uart/Uart1.c",
				"config/board.h",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Collect([]string{root}, tt.opts)
			if err != nil {
				t.Fatalf("Collect() error = %v", err)
			}
			want := make([]string, len(tt.want))
			for i, rel := range tt.want {
				want[i] = filepath.Join(root, filepath.FromSlash(rel))
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Collect() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCollect_FileRootAndDuplicates(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.c")
	file := filepath.Join(root, "a.c")

	got, err := Collect([]string{file, root}, WalkOptions{})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if diff := cmp.Diff([]string{file}, got); diff != "" {
		t.Errorf("Collect() mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_MissingRoot(t *testing.T) {
	_, err := Collect([]string{filepath.Join(t.TempDir(), "missing")}, WalkOptions{})
	if !model.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		path    string
		pattern string
		want    bool
	}{
		{"config", "*config*", true},
		{"Spi/config_spi", "*config*", true},
		{"Spi/Spi1.c", "*.c", true},
		{"Spi/Spi1.c", "Spi/*.c", true},
		{"Spi/Spi1.c", "Uart/*.c", false},
		{"Spi/Spi1.c", "[", false},
	}
	for _, tt := range tests {
		if got := MatchesPattern(tt.path, tt.pattern); got != tt.want {
			t.Errorf("MatchesPattern(%q, %q) = %v, want %v", tt.path, tt.pattern, got, tt.want)
		}
	}
}

func TestRun(t *testing.T) {
	files := []string{"a.c", "b.c", "c.c", "d.c", "e.c"}
	var inFlight, peak atomic.Int32

	outcomes, err := Run(context.Background(), files, 2, func(ctx context.Context, path string) (int, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		if path == "c.c" {
			return 0, errors.New("boom")
		}
		return len(path), nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if peak.Load() > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak.Load())
	}
	for i, o := range outcomes {
		if o.Path != files[i] {
			t.Errorf("outcome %d path = %q, want %q", i, o.Path, files[i])
		}
	}
	failed := Failed(outcomes)
	if len(failed) != 1 || failed[0].Path != "c.c" {
		t.Errorf("Failed() = %+v, want only c.c", failed)
	}
	if outcomes[4].Value != 3 {
		t.Errorf("outcome value = %d, want 3", outcomes[4].Value)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	_, err := Run(ctx, []string{"a.c", "b.c"}, 1, func(ctx context.Context, path string) (struct{}, error) {
		calls.Add(1)
		return struct{}{}, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("fn called %d times after cancellation", calls.Load())
	}
}

func TestRun_Empty(t *testing.T) {
	outcomes, err := Run(context.Background(), nil, 4, func(ctx context.Context, path string) (bool, error) {
		return true, nil
	})
	if err != nil || len(outcomes) != 0 {
		t.Errorf("Run() = %v, %v; want empty", outcomes, err)
	}
}

func TestFilter(t *testing.T) {
	root := filepath.Join("work", "src")
	paths := []string{
		filepath.Join(root, "Uart", "Uart2.c"),
		filepath.Join(root, "Uart", "Uart2.txt"),
		filepath.Join(root, "config", "pins.h"),
		filepath.Join("work", "other", "a.c"),
		filepath.Join(root, "Uart", "Uart2.c"),
	}

	got := Filter(paths, []string{root}, WalkOptions{Skip: []string{"*config*"}})
	want := []string{filepath.Join(root, "Uart", "Uart2.c")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Filter() mismatch (-want +got):\n%s", diff)
	}
}
