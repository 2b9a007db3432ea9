// Package metrics emits the records-ui metric families through a statsd.Sink.
package metrics

import (
	"maps"
	"time"

	obserrors "github.com/target/records-ui/internal/observability/errors"
	"github.com/target/records-ui/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// Source values for list metrics.
const (
	SourceCache    = "cache"
	SourceRemote   = "remote"
	SourcePrefetch = "prefetch"
)

// ListMetric describes one page lookup.
type ListMetric struct {
	Entity   string
	Page     int
	Source   string
	Result   string
	Duration time.Duration
	Err      error
}

// EmitList emits records.list and, when a duration is known, records.list.duration.
func EmitList(sink statsd.Sink, in ListMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"entity": in.Entity,
		"source": in.Source,
		"result": in.Result,
	}
	addErrorClass(tags, in.Result, in.Err)

	sink.Count("records.list", 1, tags)
	if in.Duration > 0 {
		sink.Timing("records.list.duration", in.Duration, CloneTags(tags))
	}
}

// CreateMetric describes one create submission.
type CreateMetric struct {
	Entity   string
	Result   string
	Duration time.Duration
	Err      error
}

// EmitCreate emits records.create and records.create.duration.
func EmitCreate(sink statsd.Sink, in CreateMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"entity": in.Entity,
		"result": in.Result,
	}
	addErrorClass(tags, in.Result, in.Err)

	sink.Count("records.create", 1, tags)
	if in.Duration > 0 {
		sink.Timing("records.create.duration", in.Duration, CloneTags(tags))
	}
}

// EmitInvalidate emits records.cache.invalidate.
func EmitInvalidate(sink statsd.Sink, entity, result string) {
	if sink == nil {
		return
	}
	sink.Count("records.cache.invalidate", 1, map[string]string{
		"entity": entity,
		"result": result,
	})
}

func addErrorClass(tags map[string]string, result string, err error) {
	if err == nil || result != ResultError {
		return
	}
	if class := obserrors.Classify(err); class != "" {
		tags["error_class"] = class
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	return maps.Clone(src)
}
