package cmd

import (
	"context"
	"strings"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/custom-timesheet/internal/core/events"
)

var _ = Describe("consumeEvents", func() {
	var (
		bus      *events.EventBus
		mu       sync.Mutex
		received []*events.TimesheetEvent
	)

	record := func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, e.(*events.TimesheetEvent))
		return nil
	}

	BeforeEach(func() {
		received = nil
		bus = events.NewEventBus(nil)
		bus.Subscribe(events.EventTypeTimesheetSubmitted, record)
		bus.Subscribe(events.EventTypeTimesheetRejected, record)
	})

	It("publishes each well-formed line and skips the rest", func() {
		input := strings.Join([]string{
			`{"type":"timesheet.submitted","timesheet":"TS-1","employee":"EMP-1","owner":"e1@mail.com","approvers":["lead@mail.com"]}`,
			``,
			`not json`,
			`{"type":"timesheet.unknown","timesheet":"TS-2"}`,
			`{"type":"timesheet.rejected","timesheet":"TS-3","owner":"e1@mail.com","actor":"lead@mail.com","comments":"missing task"}`,
		}, "\n")

		published, err := consumeEvents(context.Background(), strings.NewReader(input), bus)
		Expect(err).NotTo(HaveOccurred())
		Expect(published).To(Equal(2))

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		Expect(bus.Drain(ctx)).To(Succeed())

		mu.Lock()
		defer mu.Unlock()
		Expect(received).To(HaveLen(2))
		names := []string{received[0].Timesheet, received[1].Timesheet}
		Expect(names).To(ConsistOf("TS-1", "TS-3"))
	})

	It("stops when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		published, err := consumeEvents(ctx, strings.NewReader(`{"type":"timesheet.submitted","timesheet":"TS-1"}`), bus)
		Expect(err).To(MatchError(context.Canceled))
		Expect(published).To(BeZero())
	})
})

var _ = Describe("eventEnvelope", func() {
	It("builds typed timesheet events", func() {
		ev, err := eventEnvelope{Type: events.EventTypeTimesheetApproved, Timesheet: "TS-1", Comments: "ok"}.event()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.EventType()).To(Equal(events.EventTypeTimesheetApproved))
		Expect(ev.Comments).To(Equal("ok"))
	})

	It("rejects other event types", func() {
		_, err := eventEnvelope{Type: "test.event"}.event()
		Expect(err).To(HaveOccurred())
	})
})
