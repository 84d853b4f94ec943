package workorder

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderWith(rt RateType, status Status, workers, items int) WorkOrder {
	wo := WorkOrder{
		ID:        "wo-1",
		Title:     "Weed southern block",
		RateType:  rt,
		Status:    status,
		CreatedAt: time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC),
	}
	for i := 0; i < workers; i++ {
		area := decimal.NewFromInt(100)
		wo.Contributions = append(wo.Contributions, WorkerContribution{
			WorkerID:     "w-1",
			WorkAreaSize: &area,
			Rate:         decimal.NewFromInt(10),
		})
	}
	for i := 0; i < items; i++ {
		wo.Items = append(wo.Items, OrderItem{Name: "Fertilizer", Quantity: decimal.NewFromInt(5)})
	}
	return wo
}

func TestApply_LegalTransitions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		from  Status
		event Event
		to    Status
	}{
		{"mark complete", StatusOngoing, EventMarkComplete, StatusPending},
		{"approve", StatusPending, EventApprove, StatusCompleted},
		{"reject", StatusPending, EventReject, StatusRejected},
		{"request amendment", StatusPending, EventRequestAmendment, StatusAmendmentRequired},
		{"resubmit", StatusAmendmentRequired, EventResubmit, StatusOngoing},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			wo := orderWith(RateTypeNormal, c.from, 1, 0)

			updated, terr := wo.Apply(c.event)

			require.Nil(t, terr)
			assert.Equal(t, c.to, updated.Status)
			// Original copy is untouched
			assert.Equal(t, c.from, wo.Status)
		})
	}
}

func TestApply_IllegalTransitions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		from  Status
		event Event
	}{
		{"approve from ongoing", StatusOngoing, EventApprove},
		{"resubmit from ongoing", StatusOngoing, EventResubmit},
		{"mark complete from pending", StatusPending, EventMarkComplete},
		{"approve from completed", StatusCompleted, EventApprove},
		{"reject from rejected", StatusRejected, EventReject},
		{"approve from amendment_required", StatusAmendmentRequired, EventApprove},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			wo := orderWith(RateTypeNormal, c.from, 1, 0)

			updated, terr := wo.Apply(c.event)

			require.NotNil(t, terr)
			assert.Equal(t, TransitionErrorIllegalTransition, terr.Kind)
			assert.Equal(t, c.from, terr.FromStatus)
			assert.Equal(t, c.event, terr.Event)
			assert.Contains(t, terr.Message, string(c.from))
			assert.Contains(t, terr.Message, string(c.event))
			assert.Equal(t, c.from, updated.Status)
		})
	}
}

func TestApply_CompletionGuard(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		rateType    RateType
		workers     int
		items       int
		wantPass    bool
		wantMessage string
	}{
		{"normal with worker passes", RateTypeNormal, 1, 0, true, ""},
		{"normal without worker fails", RateTypeNormal, 0, 0, false, GuardMessage(RequireWorkers)},
		{"normal with only items still fails", RateTypeNormal, 0, 3, false, GuardMessage(RequireWorkers)},
		{"work_days with worker passes", RateTypeWorkDays, 2, 0, true, ""},
		{"work_days empty gets the workers message, not the default", RateTypeWorkDays, 0, 0, false, GuardMessage(RequireWorkers)},
		{"resources with only workers passes", RateTypeResources, 1, 0, true, ""},
		{"resources with only items passes", RateTypeResources, 0, 1, true, ""},
		{"resources empty fails with the either message", RateTypeResources, 0, 0, false, GuardMessage(RequireWorkersOrItems)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			wo := orderWith(c.rateType, StatusOngoing, c.workers, c.items)

			updated, terr := wo.Apply(EventMarkComplete)

			if c.wantPass {
				require.Nil(t, terr)
				assert.Equal(t, StatusPending, updated.Status)
				return
			}
			require.NotNil(t, terr)
			assert.Equal(t, TransitionErrorGuardFailure, terr.Kind)
			assert.Equal(t, StatusOngoing, terr.FromStatus)
			assert.Equal(t, EventMarkComplete, terr.Event)
			assert.Equal(t, c.wantMessage, terr.Message)
			assert.Equal(t, StatusOngoing, updated.Status)
		})
	}
}

func TestApply_UnknownRateTypeHasNoRequirements(t *testing.T) {
	t.Parallel()

	wo := orderWith(RateType("seasonal"), StatusOngoing, 0, 0)

	updated, terr := wo.Apply(EventMarkComplete)

	require.Nil(t, terr)
	assert.Equal(t, StatusPending, updated.Status)
}

func TestRegisterCompletionRequirement(t *testing.T) {
	custom := RateType("machine_hours")
	RegisterCompletionRequirement(custom, RequireItems)

	wo := orderWith(custom, StatusOngoing, 1, 0)
	_, terr := wo.Apply(EventMarkComplete)
	require.NotNil(t, terr)
	assert.Equal(t, TransitionErrorGuardFailure, terr.Kind)
	assert.Equal(t, GuardMessage(RequireItems), terr.Message)

	wo = orderWith(custom, StatusOngoing, 0, 1)
	_, terr = wo.Apply(EventMarkComplete)
	assert.Nil(t, terr)
}

func TestRegisterGuardMessage(t *testing.T) {
	kind := RequiredKind("vehicles")
	assert.Equal(t, defaultGuardMessage, GuardMessage(kind))

	RegisterGuardMessage(kind, "At least one vehicle must be logged")
	assert.Equal(t, "At least one vehicle must be logged", GuardMessage(kind))
}

func TestParseEvent(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"mark_complete", "approve", "reject", "request_amendment", "resubmit"} {
		ev, ok := ParseEvent(valid)
		assert.True(t, ok)
		assert.Equal(t, Event(valid), ev)
	}

	_, ok := ParseEvent("archive")
	assert.False(t, ok)
}

func TestValidRateType(t *testing.T) {
	t.Parallel()

	for _, valid := range []RateType{RateTypeNormal, RateTypeWorkDays, RateTypeResources} {
		assert.True(t, ValidRateType(valid))
	}
	for _, invalid := range []RateType{"", "hourly", "NORMAL"} {
		assert.False(t, ValidRateType(invalid))
	}
}

func TestEditable(t *testing.T) {
	t.Parallel()

	editable := map[Status]bool{
		StatusOngoing:           true,
		StatusAmendmentRequired: true,
		StatusPending:           false,
		StatusCompleted:         false,
		StatusRejected:          false,
	}
	for status, want := range editable {
		wo := WorkOrder{Status: status}
		assert.Equal(t, want, wo.Editable(), "status %s", status)
	}
}

func TestMonthKeyComesFromCreation(t *testing.T) {
	t.Parallel()

	wo := WorkOrder{CreatedAt: time.Date(2025, 1, 31, 23, 59, 0, 0, time.UTC)}
	assert.Equal(t, "2025-01", wo.MonthKey())

	wo.CreatedAt = time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-12", wo.MonthKey())
}

func TestContributionQuantityByRateType(t *testing.T) {
	t.Parallel()

	area := decimal.NewFromInt(100)
	days := decimal.NewFromInt(12)
	c := WorkerContribution{WorkAreaSize: &area, WorkDays: &days}

	assert.True(t, c.Quantity(RateTypeWorkDays).Equal(days))
	assert.True(t, c.Quantity(RateTypeNormal).Equal(area))
	assert.True(t, c.Quantity(RateTypeResources).Equal(area))

	empty := WorkerContribution{}
	assert.Nil(t, empty.Quantity(RateTypeNormal))
	assert.Nil(t, empty.Quantity(RateTypeWorkDays))
}
