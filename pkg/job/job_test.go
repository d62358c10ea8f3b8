package job

import (
	"context"
	"testing"
	"time"

	"github.com/onsi/gomega"
	"k8s.io/apimachinery/pkg/util/clock"

	"github.com/wintersnowfall/tracestats/pkg/classify"
	"github.com/wintersnowfall/tracestats/pkg/feeder"
	"github.com/wintersnowfall/tracestats/pkg/sidetable"
	"github.com/wintersnowfall/tracestats/pkg/tracer"
)

const mockApitrace = "../tracer/testdata/mock-apitrace.sh"

func newTestDriver(t *testing.T) *tracer.Driver {
	d, err := tracer.New(context.Background(), tracer.Options{ApitracePath: mockApitrace})
	gomega.Expect(err).To(gomega.Succeed())
	return d
}

func TestRunClassifiesTraceEndToEnd(t *testing.T) {
	gomega.RegisterTestingT(t)

	r := &Runner{Tracer: newTestDriver(t)}
	outcome, err := r.Run(context.Background(), TraceJob{InputPath: "fixture.trace"})

	gomega.Expect(err).To(gomega.Succeed())
	gomega.Expect(outcome.Skipped).To(gomega.BeFalse())
	gomega.Expect(outcome.Result.BinaryName).To(gomega.Equal("fixture"))
	gomega.Expect(outcome.Result.Name).To(gomega.Equal("fixture"))
}

func TestRunHonorsSideTableOverrides(t *testing.T) {
	gomega.RegisterTestingT(t)

	r := &Runner{
		Tracer: newTestDriver(t),
		SideTable: sidetable.Table{
			"fixture": sidetable.Entry{Name: "Fixture Game", Link: "https://example.test/fixture"},
		},
	}
	outcome, err := r.Run(context.Background(), TraceJob{InputPath: "fixture.trace"})

	gomega.Expect(err).To(gomega.Succeed())
	gomega.Expect(outcome.Result.Name).To(gomega.Equal("Fixture Game"))
	gomega.Expect(*outcome.Result.Link).To(gomega.Equal("https://example.test/fixture"))
}

func TestRunSkipsWhenAPIIsInSkipSet(t *testing.T) {
	gomega.RegisterTestingT(t)

	r := &Runner{Tracer: newTestDriver(t)}
	outcome, err := r.Run(context.Background(), TraceJob{
		InputPath: "fixture.trace",
		SkipAPIs:  map[string]bool{"D3D9": true},
	})

	gomega.Expect(err).To(gomega.Succeed())
	gomega.Expect(outcome.Skipped).To(gomega.BeTrue())
}

func TestConsumeObservesCancellationBetweenPolls(t *testing.T) {
	gomega.RegisterTestingT(t)

	fakeClock := clock.NewFakeClock(time.Now())
	cancelled := int32(1)
	r := &Runner{Clock: fakeClock, PollInterval: time.Second, Cancelled: &cancelled}

	chunks := make(chan feeder.LineChunk)
	done := make(chan struct{})
	go func() {
		var state classify.ParseState
		r.consume(context.Background(), chunks, &state, classify.Options{})
		close(done)
	}()

	fakeClock.Step(2 * time.Second)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consume did not observe cancellation flag")
	}
}
