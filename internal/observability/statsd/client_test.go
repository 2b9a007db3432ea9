package statsd

import (
	"net"
	"strings"
	"testing"
	"time"
)

func TestMetricName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix, name, want string
	}{
		{"records_ui", "records.list", "records_ui.records.list"},
		{"", " records/list ", "records_list"},
		{"app", "foo..bar", "app.foo.bar"},
		{"app", "  ", ""},
	}

	for _, tt := range tests {
		if got := metricName(tt.prefix, tt.name); got != tt.want {
			t.Fatalf("metricName(%q, %q) = %q, want %q", tt.prefix, tt.name, got, tt.want)
		}
	}
}

func TestFormatTags(t *testing.T) {
	t.Parallel()

	global := map[string]string{"env": "prod", " service ": " records-ui "}
	local := map[string]string{"result": " success ", "": "ignored", "env": "stage"}

	got := formatTags(global, local)
	want := "|#env:stage,result:success,service:records-ui"
	if got != want {
		t.Fatalf("formatTags mismatch\n got: %q\nwant: %q", got, want)
	}

	if got := formatTags(nil, nil); got != "" {
		t.Fatalf("formatTags(nil, nil) = %q, want empty string", got)
	}
}

func TestDisabledClientDrops(t *testing.T) {
	t.Parallel()

	c, err := NewClient(Config{Enabled: false, Address: "127.0.0.1:8125"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.Enabled() {
		t.Fatalf("expected disabled client")
	}
	c.Count("records.list", 1, nil)
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var nilClient *Client
	nilClient.Timing("records.list.duration", time.Second, nil)
}

func TestClientWritesUDP(t *testing.T) {
	t.Parallel()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer pc.Close()

	c, err := NewClient(Config{
		Enabled:    true,
		Address:    pc.LocalAddr().String(),
		Prefix:     "records_ui.",
		GlobalTags: map[string]string{"env": "test"},
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer c.Close()

	c.Count("records.create", 1, map[string]string{"entity": "job_roles"})

	buf := make([]byte, 512)
	if err := pc.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("deadline: %v", err)
	}
	n, _, err := pc.ReadFrom(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	got := string(buf[:n])
	want := "records_ui.records.create:1|c|#entity:job_roles,env:test"
	if !strings.EqualFold(got, want) {
		t.Fatalf("datagram = %q, want %q", got, want)
	}
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	var r Recorder
	tags := map[string]string{"entity": "posts"}
	r.Count("records.list", 1, tags)
	r.Timing("records.list.duration", 1500*time.Microsecond, tags)
	tags["entity"] = "mutated"

	list := r.Samples("records.list")
	if len(list) != 1 || list[0].Tags["entity"] != "posts" {
		t.Fatalf("unexpected samples: %+v", list)
	}
	if d := r.Samples("records.list.duration"); len(d) != 1 || d[0].Value != 1.5 {
		t.Fatalf("unexpected timing samples: %+v", d)
	}
	if len(r.Samples("")) != 2 {
		t.Fatalf("expected two samples in total")
	}
}
