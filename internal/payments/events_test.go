package payments

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventLogEvictsOldest(t *testing.T) {
	log := NewEventLog(3)
	for i := 0; i < 5; i++ {
		log.Append(EventRecord{ID: "evt_" + strconv.Itoa(i)})
	}

	events := log.Snapshot()
	require.Len(t, events, 3)
	require.Equal(t, "evt_2", events[0].ID)
	require.Equal(t, "evt_4", events[2].ID)
}

func TestEventLogSnapshotIsCopy(t *testing.T) {
	log := NewEventLog(3)
	log.Append(EventRecord{ID: "evt_a"})

	snap := log.Snapshot()
	snap[0].ID = "mutated"

	require.Equal(t, "evt_a", log.Snapshot()[0].ID)
}
