package controllers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashflow/src/api/controllers"
	"cashflow/src/schemas"
	"cashflow/src/services"
)

// calendarStub overrides only Calendar; calling anything else panics, which
// would fail the test loudly.
type calendarStub struct {
	services.DividendServiceI
	events []schemas.CalendarEvent
	err    error
}

func (s *calendarStub) Calendar(context.Context, string) ([]schemas.CalendarEvent, error) {
	return s.events, s.err
}

func TestCalendarDegradesToEmptyOnFailure(t *testing.T) {
	c := &controllers.Controller{DividendService: &calendarStub{err: errors.New("db down")}}

	res, err := c.Calendar(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.NotNil(t, res.Events)
	assert.Empty(t, res.Events)
}

func TestCalendarPassesEventsThrough(t *testing.T) {
	events := []schemas.CalendarEvent{
		{PortfolioID: 1, Symbol: "AAPL", Amount: 0.25, Shares: 10, Cash: 2.5, Status: schemas.DividendStatusUpcoming},
	}
	c := &controllers.Controller{DividendService: &calendarStub{events: events}}

	res, err := c.Calendar(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, events, res.Events)
}

func TestCalendarNormalizesNilToEmpty(t *testing.T) {
	c := &controllers.Controller{DividendService: &calendarStub{}}

	res, err := c.Calendar(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotNil(t, res.Events)
	assert.Empty(t, res.Events)
}
