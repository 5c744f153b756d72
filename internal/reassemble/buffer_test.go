package reassemble

import "testing"

func TestBufferFirstWriterWins(t *testing.T) {
	b := NewBuffer[string]("BTC-USD", 2, 1)
	if !b.Write(0, 1, "first") {
		t.Fatalf("expected first write to claim seq 1")
	}
	if b.Write(1, 1, "second") {
		t.Errorf("expected duplicate write to lose")
	}
	data, loss, ready := b.Read()
	if !ready || loss != nil || data != "first" {
		t.Errorf("expected ready=true data=first, got ready=%v loss=%v data=%v", ready, loss, data)
	}
}

func TestBufferSeedsFromFirstSeenNoSpuriousLoss(t *testing.T) {
	b := NewBuffer[string]("BTC-USD", 1, 10)
	if !b.Write(0, 10, "first") {
		t.Fatalf("expected first write to claim seq 10")
	}
	data, loss, ready := b.Read()
	if !ready || loss != nil || data != "first" {
		t.Errorf("expected the stream's own first delivery to read clean with no startup loss, got ready=%v loss=%v data=%v", ready, loss, data)
	}
}

func TestBufferReportsLossOnceAllSourcesPast(t *testing.T) {
	b := NewBuffer[string]("BTC-USD", 2, 1)
	b.Write(0, 2, "seq2-from-0")
	if _, _, ready := b.Read(); ready {
		t.Fatalf("seq 1 not yet seen from source 1, should not be ready")
	}
	b.Write(1, 2, "seq2-from-1")
	_, loss, ready := b.Read()
	if ready {
		t.Fatalf("expected no ready item, seq 1 is a gap")
	}
	if loss == nil || loss.Sequence != 1 {
		t.Fatalf("expected loss at sequence 1, got %v", loss)
	}
}

func TestBufferDeliversInOrderAfterGapReport(t *testing.T) {
	b := NewBuffer[string]("BTC-USD", 1, 1)
	b.Write(0, 2, "seq2")
	_, loss, _ := b.Read()
	if loss == nil {
		t.Fatalf("expected a loss reported for seq 1")
	}
	data, loss2, ready := b.Read()
	if !ready || loss2 != nil || data != "seq2" {
		t.Errorf("expected seq2 to be delivered next, got ready=%v loss=%v data=%v", ready, loss2, data)
	}
}
