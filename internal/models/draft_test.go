package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullDraft() *Draft {
	return &Draft{
		UserID:       100,
		Step:         StepConfirm,
		CategoryID:   "c1",
		ServiceID:    "s1",
		ServiceTitle: "Маникюр",
		ServicePrice: "1500",
		Date:         "2026-09-15",
		Time:         "14:00",
		Phone:        "+79991234567",
	}
}

func TestDraftStartAt(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	d := fullDraft()
	start, err := d.StartAt(loc)
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 9, 15, 14, 0, 0, 0, loc).Equal(start))
}

func TestDraftStartAtIncomplete(t *testing.T) {
	d := fullDraft()
	d.Time = ""

	_, err := d.StartAt(time.UTC)
	assert.ErrorIs(t, err, ErrDraftIncomplete)
}

func TestDraftReadyToBook(t *testing.T) {
	assert.NoError(t, fullDraft().ReadyToBook())

	missing := []func(*Draft){
		func(d *Draft) { d.ServiceID = "" },
		func(d *Draft) { d.Date = "" },
		func(d *Draft) { d.Time = "" },
	}
	for _, mutate := range missing {
		d := fullDraft()
		mutate(d)
		assert.ErrorIs(t, d.ReadyToBook(), ErrDraftIncomplete)
	}
}

func TestResetFromClearsOnlyLaterFields(t *testing.T) {
	t.Run("back to date keeps service", func(t *testing.T) {
		d := fullDraft()
		d.ResetFrom(StepSelectDate)

		assert.Equal(t, StepSelectDate, d.Step)
		assert.Empty(t, d.Time)
		assert.Empty(t, d.Phone)
		assert.Equal(t, "s1", d.ServiceID)
		assert.Equal(t, "Маникюр", d.ServiceTitle)
	})

	t.Run("back to service keeps category", func(t *testing.T) {
		d := fullDraft()
		d.ResetFrom(StepSelectService)

		assert.Equal(t, StepSelectService, d.Step)
		assert.Empty(t, d.ServiceID)
		assert.Empty(t, d.Date)
		assert.Empty(t, d.Time)
		assert.Equal(t, "c1", d.CategoryID)
	})

	t.Run("unknown step is noop", func(t *testing.T) {
		d := fullDraft()
		d.ResetFrom("nonsense")

		assert.Equal(t, StepConfirm, d.Step)
		assert.Equal(t, "14:00", d.Time)
	})
}
