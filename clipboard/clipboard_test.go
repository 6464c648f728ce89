package clipboard

import "testing"

func TestMemoryRoundTrip(t *testing.T) {
	var m Memory
	got, err := m.ReadText()
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("fresh clipboard = %q", got)
	}
	if err := m.WriteText("hello"); err != nil {
		t.Fatal(err)
	}
	got, err = m.ReadText()
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello" {
		t.Errorf("got %q", got)
	}
}

func TestExecClipboardNoTools(t *testing.T) {
	c := &execClipboard{}
	if _, err := c.ReadText(); err != ErrUnavailable {
		t.Errorf("read err = %v", err)
	}
	if err := c.WriteText("x"); err != ErrUnavailable {
		t.Errorf("write err = %v", err)
	}
}
