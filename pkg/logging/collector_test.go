package logging

import "testing"

func TestCollector_BuffersMessagesInOrder(t *testing.T) {
	t.Parallel()

	c := NewCollector(nil)
	c.Info("first")
	c.Warn("second")
	c.Error("third")

	msgs := c.Messages()
	if len(msgs) != 3 {
		t.Fatalf("messages want=3 got=%d", len(msgs))
	}

	want := []Message{
		{Level: "info", Text: "first"},
		{Level: "warning", Text: "second"},
		{Level: "error", Text: "third"},
	}
	for i, w := range want {
		if msgs[i] != w {
			t.Fatalf("message %d want=%+v got=%+v", i, w, msgs[i])
		}
	}
}

func TestCollector_MessagesReturnsCopy(t *testing.T) {
	t.Parallel()

	c := NewCollector(nil)
	c.Info("original")

	msgs := c.Messages()
	msgs[0].Text = "mutated"

	if got := c.Messages()[0].Text; got != "original" {
		t.Fatalf("internal buffer must not alias the returned slice, got=%q", got)
	}
}

func TestCollector_NilLogger(t *testing.T) {
	t.Parallel()

	c := NewCollector(nil)
	if c.Logger() == nil {
		t.Fatalf("nil logger must be replaced with a no-op logger")
	}
}
