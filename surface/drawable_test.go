// SPDX-License-Identifier: Unlicense OR MIT

package surface_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"xyzw.us/glsurface/surface"
	"xyzw.us/glsurface/surface/surfacetest"
)

type recorder struct {
	mu       sync.Mutex
	reshapes [][2]int
	frames   int
	current  []surface.Slot
	err      error
	swapped  chan struct{}
}

func (r *recorder) Reshape(w, h int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reshapes = append(r.reshapes, [2]int{w, h})
}

func (r *recorder) Display(d *surface.Drawable) error {
	r.mu.Lock()
	r.frames++
	r.current = append(r.current, d.CurrentContext())
	err := r.err
	r.mu.Unlock()
	if err != nil {
		return err
	}
	ok, err := d.SwapBuffers()
	if ok && r.swapped != nil {
		select {
		case r.swapped <- struct{}{}:
		default:
		}
	}
	return err
}

func newDrawable(t *testing.T) (*surface.Drawable, *surfacetest.Display) {
	t.Helper()
	d := surfacetest.NewDisplay(rgb565)
	dr, err := surface.New(d)
	if err != nil {
		t.Fatal(err)
	}
	return dr, d
}

func TestNewFailure(t *testing.T) {
	_, err := surface.New(surfacetest.NewDisplay(rgba8888))
	if !errors.Is(err, surface.ErrNoConfig) {
		t.Errorf("got %v, want ErrNoConfig", err)
	}
}

func TestSurfaceChangedLatch(t *testing.T) {
	dr, _ := newDrawable(t)
	if dr.NeedsReshape() {
		t.Fatal("reshape pending before any size")
	}
	dr.SurfaceChanged(320, 480)
	if !dr.NeedsReshape() || dr.Width() != 320 || dr.Height() != 480 {
		t.Fatalf("latch %v %dx%d", dr.NeedsReshape(), dr.Width(), dr.Height())
	}
	dr.ClearNeedsReshape()
	dr.SurfaceChanged(320, 480)
	if dr.NeedsReshape() {
		t.Error("unchanged size set the reshape bit")
	}
	dr.SurfaceChanged(480, 320)
	if !dr.NeedsReshape() {
		t.Error("changed size did not set the reshape bit")
	}
}

func TestReadyFollowsSurface(t *testing.T) {
	dr, _ := newDrawable(t)
	if dr.Ready() {
		t.Fatal("ready before a surface")
	}
	if err := dr.SurfaceCreated(win1); err != nil {
		t.Fatal(err)
	}
	if !dr.Ready() {
		t.Error("not ready with a surface")
	}
	if err := dr.SurfaceDestroyed(); err != nil {
		t.Fatal(err)
	}
	if dr.Ready() {
		t.Error("ready after the surface was destroyed")
	}
}

func TestFrame(t *testing.T) {
	dr, d := newDrawable(t)
	r := new(recorder)
	if err := dr.Frame(r); err != nil {
		t.Fatal(err)
	}
	if r.frames != 0 {
		t.Fatal("frame displayed without a surface")
	}
	if err := dr.SurfaceCreated(win1); err != nil {
		t.Fatal(err)
	}
	dr.SurfaceChanged(640, 480)
	s, err := dr.CreateContext(surface.Primary)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := dr.MakeContextCurrent(s); err != nil {
		t.Fatal(err)
	}
	if err := dr.Frame(r); err != nil {
		t.Fatal(err)
	}
	if len(r.reshapes) != 1 || r.reshapes[0] != [2]int{640, 480} {
		t.Errorf("reshapes %v", r.reshapes)
	}
	if dr.NeedsReshape() {
		t.Error("reshape bit not cleared")
	}
	if r.current[0] != surface.Primary {
		t.Errorf("displayed with slot %d current", r.current[0])
	}
	if err := dr.Frame(r); err != nil {
		t.Fatal(err)
	}
	if len(r.reshapes) != 1 {
		t.Errorf("%d reshapes, want 1", len(r.reshapes))
	}
	if n := d.Swaps(); n != 2 {
		t.Errorf("%d presents, want 2", n)
	}
	if err := dr.DestroyContext(s); err != nil {
		t.Fatal(err)
	}
}

func TestLoop(t *testing.T) {
	dr, _ := newDrawable(t)
	if err := dr.SurfaceCreated(win1); err != nil {
		t.Fatal(err)
	}
	dr.SurfaceChanged(100, 100)
	r := &recorder{swapped: make(chan struct{}, 1)}
	l := surface.NewLoop(dr, r, time.Millisecond)
	select {
	case <-r.swapped:
	case <-time.After(5 * time.Second):
		t.Fatal("no frame presented")
	}
	if err := l.Stop(); err != nil {
		t.Fatal(err)
	}
	if c := dr.CurrentContext(); c != surface.NoSlot {
		t.Errorf("slot %d still current after Stop", c)
	}
	if err := l.Stop(); err != nil {
		t.Errorf("second Stop = %v", err)
	}
	if err := dr.Release(); err != nil {
		t.Fatal(err)
	}
}

func TestLoopError(t *testing.T) {
	dr, d := newDrawable(t)
	if err := dr.SurfaceCreated(win1); err != nil {
		t.Fatal(err)
	}
	// The reshape binds the primary context on the loop thread.
	dr.SurfaceChanged(100, 100)
	want := errors.New("render failed")
	r := &recorder{err: want}
	l := surface.NewLoop(dr, r, time.Millisecond)
	select {
	case <-l.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not end")
	}
	if c := dr.CurrentContext(); c != surface.NoSlot {
		t.Errorf("slot %d still current after the loop thread exited", c)
	}
	if _, c := d.Bound(); c != surface.NoContext {
		t.Errorf("driver context %#x still bound", uintptr(c))
	}
	if err := l.Stop(); err != want {
		t.Errorf("Stop = %v, want %v", err, want)
	}
	// A new loop binds again and presents.
	r2 := &recorder{swapped: make(chan struct{}, 1)}
	dr.SurfaceChanged(200, 200)
	l2 := surface.NewLoop(dr, r2, time.Millisecond)
	select {
	case <-r2.swapped:
	case <-time.After(5 * time.Second):
		t.Fatal("no frame presented after restart")
	}
	if err := l2.Stop(); err != nil {
		t.Fatal(err)
	}
}

func TestLoopConcurrentStop(t *testing.T) {
	dr, _ := newDrawable(t)
	l := surface.NewLoop(dr, &recorder{}, time.Millisecond)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Stop(); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	select {
	case <-l.Done():
	default:
		t.Error("loop still running after Stop")
	}
}
