package overlay

import (
	"errors"
	"testing"
	"time"

	"github.com/folio3d/parkwalk/internal/game/info"
)

type fakeDialogs struct {
	release chan bool
	titles  chan string
	opened  chan string
	openErr error
}

func newFake() *fakeDialogs {
	return &fakeDialogs{
		release: make(chan bool),
		titles:  make(chan string, 4),
		opened:  make(chan string, 4),
	}
}

func (f *fakeDialogs) presenter() *Presenter {
	p := New()
	p.confirm = func(title, _ string) bool {
		f.titles <- title
		return <-f.release
	}
	p.notify = func(title, _ string) {
		f.titles <- title
		<-f.release
	}
	p.openURL = func(url string) error {
		f.opened <- url
		return f.openErr
	}
	return p
}

func waitClosed(t *testing.T, p *Presenter) []Closed {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c := p.Poll(); len(c) > 0 {
			return c
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("dialog never closed")
	return nil
}

var project = info.Entry{Title: "Project", Content: "A thing", Link: "https://example.com/"}

func TestShowFollowsLink(t *testing.T) {
	f := newFake()
	p := f.presenter()

	if !p.Show("Project_1", project) {
		t.Fatal("Show refused on an idle presenter")
	}
	if got := <-f.titles; got != "Project" {
		t.Errorf("title = %q", got)
	}
	if !p.IsOpen() || p.Current() != "Project_1" {
		t.Errorf("open=%v current=%q", p.IsOpen(), p.Current())
	}
	if p.Show("Chest", info.Entry{Title: "Chest"}) {
		t.Error("a second dialog must be ignored while one is open")
	}

	f.release <- true
	closed := waitClosed(t, p)
	if len(closed) != 1 || closed[0].Name != "Project_1" || !closed[0].Followed || closed[0].Err != nil {
		t.Errorf("closed = %+v", closed)
	}
	if got := <-f.opened; got != project.Link {
		t.Errorf("opened %q", got)
	}
	if p.IsOpen() {
		t.Error("presenter should be idle again")
	}
	if len(p.Poll()) != 0 {
		t.Error("Poll should drain")
	}
}

func TestShowDeclined(t *testing.T) {
	f := newFake()
	p := f.presenter()
	p.Show("Project_2", project)
	<-f.titles
	f.release <- false

	closed := waitClosed(t, p)
	if closed[0].Followed {
		t.Error("declining must not open the link")
	}
	select {
	case url := <-f.opened:
		t.Errorf("opened %q", url)
	default:
	}
}

func TestShowWithoutLink(t *testing.T) {
	f := newFake()
	p := f.presenter()
	p.Show("Chest", info.Entry{Title: "Chest", Content: "Loot"})
	if got := <-f.titles; got != "Chest" {
		t.Errorf("title = %q", got)
	}
	f.release <- true
	if c := waitClosed(t, p); c[0].Followed {
		t.Error("entries without links cannot be followed")
	}
}

func TestOpenLinkFailure(t *testing.T) {
	f := newFake()
	f.openErr = errors.New("no browser")
	p := f.presenter()
	p.Show("Project_3", project)
	<-f.titles
	f.release <- true

	c := waitClosed(t, p)
	if !errors.Is(c[0].Err, f.openErr) {
		t.Errorf("err = %v, want wrapped open error", c[0].Err)
	}
}
