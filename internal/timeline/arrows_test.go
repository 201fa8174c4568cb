package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webmixgamer/trinity-timeline/internal/domain"
)

// collabFixture builds two rows where bob's execution starts at the given
// offset from the collaboration event timestamp.
func collabFixture(t *testing.T, targetOffset time.Duration) ([]domain.Event, []domain.AgentRow, Mapper) {
	t.Helper()
	m := activityMapper(t)
	ts := activityBase.Add(30 * time.Minute)
	agents := []domain.Agent{{Name: "alice"}, {Name: "bob"}}
	events := []domain.Event{
		{SourceAgent: "bob", Timestamp: ts.Add(targetOffset), Status: domain.EventStatusSuccess},
		{SourceAgent: "alice", TargetAgent: "bob", ActivityType: "collaboration_invoke", Timestamp: ts},
	}
	rows := BuildRows(agents, events, m, len(events), RowOptions{})
	return events, rows, m
}

func TestBuildArrowsMatchWithinTolerance(t *testing.T) {
	events, rows, m := collabFixture(t, 10*time.Second)

	arrows := BuildArrows(events, rows, m, len(events))
	require.Len(t, arrows, 1)

	a := arrows[0]
	assert.Equal(t, 0, a.SourceRow)
	assert.Equal(t, 1, a.TargetRow)
	assert.Equal(t, domain.ArrowDown, a.Direction)
	assert.True(t, a.Active)
	assert.False(t, a.HasError)
	assert.Greater(t, a.ToY, a.FromY)
}

func TestBuildArrowsSuppressedOutsideTolerance(t *testing.T) {
	events, rows, m := collabFixture(t, 31*time.Second)

	arrows := BuildArrows(events, rows, m, len(events))
	assert.Empty(t, arrows, "no floating arrows to nothing")
}

func TestBuildArrowsSuppressedWithoutTargetRow(t *testing.T) {
	m := activityMapper(t)
	ts := activityBase.Add(30 * time.Minute)
	agents := []domain.Agent{{Name: "alice"}}
	events := []domain.Event{
		{SourceAgent: "alice", TargetAgent: "bob", ActivityType: "collaboration_invoke", Timestamp: ts},
	}
	rows := BuildRows(agents, events, m, 1, RowOptions{})

	arrows := BuildArrows(events, rows, m, 1)
	assert.Empty(t, arrows)
}

func TestBuildArrowsDirectionUp(t *testing.T) {
	m := activityMapper(t)
	ts := activityBase.Add(30 * time.Minute)
	// bob sorts before zoe, so zoe -> bob points up.
	agents := []domain.Agent{{Name: "bob"}, {Name: "zoe"}}
	events := []domain.Event{
		{SourceAgent: "bob", Timestamp: ts},
		{SourceAgent: "zoe", TargetAgent: "bob", ActivityType: "collaboration_invoke", Timestamp: ts},
	}
	rows := BuildRows(agents, events, m, 2, RowOptions{})

	arrows := BuildArrows(events, rows, m, 2)
	require.Len(t, arrows, 1)
	assert.Equal(t, domain.ArrowUp, arrows[0].Direction)
	assert.Less(t, arrows[0].ToY, arrows[0].FromY)
}

func TestBuildArrowsErrorPropagation(t *testing.T) {
	m := activityMapper(t)
	ts := activityBase.Add(30 * time.Minute)
	agents := []domain.Agent{{Name: "alice"}, {Name: "bob"}}
	events := []domain.Event{
		{SourceAgent: "bob", Timestamp: ts},
		{SourceAgent: "alice", TargetAgent: "bob", ActivityType: "collaboration_invoke", Timestamp: ts, Status: domain.EventStatusFailed},
	}
	rows := BuildRows(agents, events, m, 0, RowOptions{})

	arrows := BuildArrows(events, rows, m, 0)
	require.Len(t, arrows, 1)
	assert.True(t, arrows[0].HasError)
	assert.False(t, arrows[0].Active, "index 0 means nothing has played yet")
}
