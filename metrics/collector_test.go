package metrics

import (
	"sync"
	"testing"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector("inv-001", "docs")

	c.IncDocumentScanned()
	c.IncDocumentScanned()
	c.IncDocumentMalformed()
	c.AddBlocks(3, map[string]int64{"runnable": 2, "transcript": 1})
	c.IncSnippetLaunched()
	c.IncSnippetLaunched()
	c.IncLaunchFailure()
	c.IncTimeout()
	c.IncSinkWriteSuccess()
	c.AbsorbSummary(1, 1, 0, 1)

	snap := c.Snapshot()
	if snap.DocumentsScanned != 2 || snap.DocumentsMalformed != 1 {
		t.Errorf("documents = %d/%d", snap.DocumentsScanned, snap.DocumentsMalformed)
	}
	if snap.BlocksExtracted != 3 {
		t.Errorf("blocks = %d", snap.BlocksExtracted)
	}
	if snap.BlocksByClass["runnable"] != 2 || snap.BlocksByClass["transcript"] != 1 {
		t.Errorf("by class = %v", snap.BlocksByClass)
	}
	if snap.SnippetsLaunched != 2 || snap.LaunchFailures != 1 || snap.Timeouts != 1 {
		t.Errorf("dispatch = %d/%d/%d", snap.SnippetsLaunched, snap.LaunchFailures, snap.Timeouts)
	}
	if snap.Passed != 1 || snap.Failed != 1 || snap.Errored != 0 || snap.Skipped != 1 {
		t.Errorf("results = %d/%d/%d/%d", snap.Passed, snap.Failed, snap.Errored, snap.Skipped)
	}
	if snap.SinkWriteSuccess != 1 || snap.SinkWriteFailure != 0 {
		t.Errorf("sink = %d/%d", snap.SinkWriteSuccess, snap.SinkWriteFailure)
	}
	if snap.InvocationID != "inv-001" || snap.Root != "docs" {
		t.Errorf("dimensions = %q/%q", snap.InvocationID, snap.Root)
	}
}

func TestCollector_NilReceiverSafe(t *testing.T) {
	var c *Collector

	// None of these should panic.
	c.IncDocumentScanned()
	c.IncDocumentMalformed()
	c.AddBlocks(1, map[string]int64{"runnable": 1})
	c.IncSnippetLaunched()
	c.IncLaunchFailure()
	c.IncTimeout()
	c.IncSinkWriteSuccess()
	c.IncSinkWriteFailure()
	c.AbsorbSummary(1, 2, 3, 4)

	snap := c.Snapshot()
	if snap.DocumentsScanned != 0 {
		t.Errorf("nil collector snapshot = %+v", snap)
	}
}

func TestCollector_SnapshotIsolation(t *testing.T) {
	c := NewCollector("inv", "root")
	c.AddBlocks(1, map[string]int64{"runnable": 1})

	snap := c.Snapshot()
	snap.BlocksByClass["runnable"] = 99

	if c.Snapshot().BlocksByClass["runnable"] != 1 {
		t.Error("snapshot mutation leaked into collector")
	}
}

func TestCollector_ConcurrentIncrements(t *testing.T) {
	c := NewCollector("inv", "root")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.IncSnippetLaunched()
			c.AddBlocks(1, map[string]int64{"runnable": 1})
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	if snap.SnippetsLaunched != 50 || snap.BlocksExtracted != 50 {
		t.Errorf("counters = %d/%d, want 50/50", snap.SnippetsLaunched, snap.BlocksExtracted)
	}
}
