package engine

import (
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/neuroemotive/emotive-core/internal/asset"
	"github.com/neuroemotive/emotive-core/internal/emotion"
	"github.com/neuroemotive/emotive-core/internal/event"
	"github.com/neuroemotive/emotive-core/internal/gate"
	"github.com/neuroemotive/emotive-core/internal/session"
	"github.com/neuroemotive/emotive-core/internal/store"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	st, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	e := New(st, DefaultConfig(), zap.NewNop())
	clock := int64(1000)
	e.now = func() int64 {
		clock++
		return clock
	}
	return e
}

func sessionID(seed byte) [32]byte {
	var id [32]byte
	for i := range id {
		id[i] = seed
	}
	return id
}

func calmVector(ts int64) emotion.Vector {
	return emotion.Vector{Valence: 0.5, Arousal: 0.3, Dominance: 0.6, Confidence: 0.9, Timestamp: ts}
}

func initSession(t *testing.T, e *Engine, creator string, seed byte) session.Session {
	t.Helper()
	sess, err := e.InitializeSession(creator, sessionID(seed), calmVector(1000), []float32{0.2, 0.4, 0.6})
	if err != nil {
		t.Fatalf("InitializeSession: %v", err)
	}
	return sess
}

func TestInitializeSession(t *testing.T) {
	e := testEngine(t)

	sess := initSession(t, e, "alice", 1)
	if sess.Creator != "alice" || sess.Revision != 1 {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if sess.Reputation != 0.5 || sess.CreativityIndex != 0.5 {
		t.Fatalf("expected neutral scores, got rep %f creativity %f", sess.Reputation, sess.CreativityIndex)
	}
	if sess.CompressedState != emotion.Digest(sess.Vector) {
		t.Fatal("initial digest should cover the initial vector")
	}

	got, err := e.GetSession(sessionID(1))
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Creator != "alice" {
		t.Fatalf("expected alice, got %s", got.Creator)
	}

	tr, err := e.GetTrajectory(sessionID(1))
	if err != nil {
		t.Fatalf("GetTrajectory: %v", err)
	}
	if len(tr.History) != 0 {
		t.Fatalf("expected empty history, got %d", len(tr.History))
	}

	entries, err := event.ListFor(e.Store().DB(), hexID(sessionID(1)), 10)
	if err != nil {
		t.Fatalf("ListFor: %v", err)
	}
	if len(entries) != 1 || entries[0].Type != event.TypeSessionInitialized {
		t.Fatalf("expected session_initialized event, got %+v", entries)
	}
}

func TestInitializeSessionRejectsBadVector(t *testing.T) {
	e := testEngine(t)

	bad := calmVector(1000)
	bad.Arousal = 1.5
	if _, err := e.InitializeSession("alice", sessionID(1), bad, nil); !errors.Is(err, emotion.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestInitializeSessionDuplicate(t *testing.T) {
	e := testEngine(t)
	initSession(t, e, "alice", 1)

	if _, err := e.InitializeSession("alice", sessionID(1), calmVector(2000), nil); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestRecordPerformance(t *testing.T) {
	e := testEngine(t)
	initSession(t, e, "alice", 1)

	obs := session.Observation{
		Vector:    emotion.Vector{Valence: 0.8, Arousal: 0.4, Dominance: 0.5, Confidence: 0.9, Timestamp: 2000},
		Params:    []float32{0.9, 0.1},
		Intensity: 0.7,
		Quality:   0.8,
	}
	sess, perf, err := e.RecordPerformance("alice", sessionID(1), obs)
	if err != nil {
		t.Fatalf("RecordPerformance: %v", err)
	}
	if sess.InteractionCount != 1 {
		t.Fatalf("expected 1 interaction, got %d", sess.InteractionCount)
	}
	// EMA step from neutral 0.5 toward quality 0.8 with weight 0.1.
	if sess.Reputation < 0.5299 || sess.Reputation > 0.5301 {
		t.Fatalf("expected reputation 0.53, got %f", sess.Reputation)
	}
	if perf.Impact <= 0 {
		t.Fatalf("expected positive impact, got %f", perf.Impact)
	}

	perfs, err := e.Store().ListPerformance(sessionID(1), 10)
	if err != nil {
		t.Fatalf("ListPerformance: %v", err)
	}
	if len(perfs) != 1 {
		t.Fatalf("expected 1 performance row, got %d", len(perfs))
	}
}

func TestRecordPerformanceUnauthorized(t *testing.T) {
	e := testEngine(t)
	initSession(t, e, "alice", 1)

	obs := session.Observation{Vector: calmVector(2000), Intensity: 0.5, Quality: 0.5}
	if _, _, err := e.RecordPerformance("mallory", sessionID(1), obs); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRecordPerformanceUnknownSession(t *testing.T) {
	e := testEngine(t)

	obs := session.Observation{Vector: calmVector(2000), Intensity: 0.5, Quality: 0.5}
	if _, _, err := e.RecordPerformance("alice", sessionID(9), obs); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAdvanceTrajectory(t *testing.T) {
	e := testEngine(t)
	initial := calmVector(1000)
	initSession(t, e, "alice", 1)

	v1 := emotion.Vector{Valence: 0.6, Arousal: 0.4, Dominance: 0.5, Confidence: 0.9, Timestamp: 2000}
	sess, tr, err := e.AdvanceTrajectory("alice", sessionID(1), v1)
	if err != nil {
		t.Fatalf("AdvanceTrajectory: %v", err)
	}
	if len(tr.History) != 1 || tr.History[0] != initial {
		t.Fatalf("history should hold the displaced vector: %+v", tr.History)
	}
	if sess.Vector != v1 {
		t.Fatalf("session vector should be the new one: %+v", sess.Vector)
	}
	if !tr.PredictedNext.IsZero() {
		t.Fatalf("single-entry history should predict zero, got %+v", tr.PredictedNext)
	}

	v2 := emotion.Vector{Valence: 0.7, Arousal: 0.5, Dominance: 0.4, Confidence: 0.9, Timestamp: 3000}
	sess, tr, err = e.AdvanceTrajectory("alice", sessionID(1), v2)
	if err != nil {
		t.Fatalf("AdvanceTrajectory: %v", err)
	}
	if len(tr.History) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(tr.History))
	}
	// First differences on (initial, v1): next valence = 0.6 + (0.6-0.5).
	if tr.PredictedNext.Valence < 0.699 || tr.PredictedNext.Valence > 0.701 {
		t.Fatalf("expected predicted valence 0.7, got %f", tr.PredictedNext.Valence)
	}
	if tr.PredictedNext.Confidence != 0.7 {
		t.Fatalf("expected prediction confidence 0.7, got %f", tr.PredictedNext.Confidence)
	}
	if sess.Complexity != tr.Complexity {
		t.Fatal("session complexity should mirror the trajectory")
	}
}

func TestCompressStateRefreshesLaggingDigest(t *testing.T) {
	e := testEngine(t)
	initial := calmVector(1000)
	initSession(t, e, "alice", 1)

	obs := session.Observation{
		Vector:    emotion.Vector{Valence: -0.2, Arousal: 0.6, Dominance: 0.4, Confidence: 0.8, Timestamp: 2000},
		Intensity: 0.5,
		Quality:   0.5,
	}
	sess, _, err := e.RecordPerformance("alice", sessionID(1), obs)
	if err != nil {
		t.Fatalf("RecordPerformance: %v", err)
	}
	// Recording moved the vector but not the digest.
	if sess.CompressedState != emotion.Digest(initial) {
		t.Fatal("digest should still cover the initial vector")
	}

	compressed, err := e.CompressState("alice", sessionID(1))
	if err != nil {
		t.Fatalf("CompressState: %v", err)
	}
	if compressed.CompressedState != emotion.Digest(obs.Vector) {
		t.Fatal("digest should cover the current vector after compression")
	}
}

func TestSetBridgeStatus(t *testing.T) {
	e := testEngine(t)
	initSession(t, e, "alice", 1)

	info := session.BridgeInfo{
		TargetChain:    "ethereum",
		TargetContract: "0xabc",
		Status:         session.BridgeDone,
		BridgeTime:     2000,
		EmotionalHash:  sessionID(0xEE),
	}
	sess, err := e.SetBridgeStatus("alice", sessionID(1), info)
	if err != nil {
		t.Fatalf("SetBridgeStatus: %v", err)
	}
	if sess.Bridge != info {
		t.Fatalf("bridge mismatch: %+v", sess.Bridge)
	}

	got, _ := e.GetSession(sessionID(1))
	if got.Bridge.TargetChain != "ethereum" || got.Bridge.Status != session.BridgeDone {
		t.Fatalf("bridge did not persist: %+v", got.Bridge)
	}

	bad := info
	bad.Status = 3
	if _, err := e.SetBridgeStatus("alice", sessionID(1), bad); err == nil {
		t.Fatal("expected error for unknown bridge status")
	}
}

func TestUpdateReputation(t *testing.T) {
	e := testEngine(t)
	initSession(t, e, "alice", 1)

	for i := 0; i < 3; i++ {
		obs := session.Observation{Vector: calmVector(int64(2000 + i)), Intensity: 0.5, Quality: 0.6}
		if _, _, err := e.RecordPerformance("alice", sessionID(1), obs); err != nil {
			t.Fatalf("RecordPerformance: %v", err)
		}
	}

	rec, err := e.UpdateReputation("alice", sessionID(1), 0.8)
	if err != nil {
		t.Fatalf("UpdateReputation: %v", err)
	}
	if rec.TotalSessions != 1 || rec.TotalInteractions != 3 {
		t.Fatalf("counts wrong: sessions %d interactions %d", rec.TotalSessions, rec.TotalInteractions)
	}
	// First fold from the zero record: score = 0*0.9 + 0.8*0.1.
	if rec.Score < 0.0799 || rec.Score > 0.0801 {
		t.Fatalf("expected score 0.08, got %f", rec.Score)
	}
	if rec.CreativityScore != 0.5 {
		t.Fatalf("first session should set the creativity mean to the index, got %f", rec.CreativityScore)
	}
	if rec.CommunityRank != 1 {
		t.Fatalf("expected rank 1, got %d", rec.CommunityRank)
	}

	rec, err = e.UpdateReputation("alice", sessionID(1), 0.9)
	if err != nil {
		t.Fatalf("UpdateReputation: %v", err)
	}
	if rec.TotalSessions != 2 || rec.TotalInteractions != 6 {
		t.Fatalf("counts wrong after second fold: %+v", rec)
	}

	if _, err := e.UpdateReputation("mallory", sessionID(1), 0.5); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestUpdateReputationRejectsBadPerformance(t *testing.T) {
	e := testEngine(t)
	initSession(t, e, "alice", 1)

	if _, err := e.UpdateReputation("alice", sessionID(1), 1.5); !errors.Is(err, emotion.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestRegistry(t *testing.T) {
	e := testEngine(t)

	reg, err := e.InitializeRegistry("authority")
	if err != nil {
		t.Fatalf("InitializeRegistry: %v", err)
	}
	if reg.Authority != "authority" || reg.TotalRecords != 0 {
		t.Fatalf("unexpected registry: %+v", reg)
	}

	initSession(t, e, "alice", 1)
	reg, err = e.Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}
	if reg.TotalRecords != 1 {
		t.Fatalf("expected 1 record counted, got %d", reg.TotalRecords)
	}
}

func mintInput(arousal, confidence float32) asset.MintInput {
	in := asset.MintInput{
		Fingerprint:  sessionID(0xAB),
		AIConfidence: confidence,
		Emotion:      emotion.Vector{Valence: 0.4, Arousal: arousal, Dominance: 0.5, Confidence: 0.9, Timestamp: 1000},
		URI:          "ipfs://asset",
	}
	in.Signature[0] = 0x01
	return in
}

func TestMintAndTransfer(t *testing.T) {
	e := testEngine(t)

	col, err := e.InitializeCollection("authority", "Moods", "MOOD", "ipfs://col")
	if err != nil {
		t.Fatalf("InitializeCollection: %v", err)
	}

	a, err := e.MintAsset("bob", col.ID, mintInput(0.3, 0.9))
	if err != nil {
		t.Fatalf("MintAsset: %v", err)
	}
	if a.Owner != "bob" || a.Generation != 1 {
		t.Fatalf("unexpected asset: %+v", a)
	}

	gotCol, _ := e.GetCollection(col.ID)
	if gotCol.TotalSupply != 1 {
		t.Fatalf("expected supply 1, got %d", gotCol.TotalSupply)
	}

	// Only the owner may move it.
	if _, err := e.TransferAsset("mallory", a.ID, "carol"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	// Self-transfer is a gate veto.
	if _, err := e.TransferAsset("bob", a.ID, "bob"); !errors.Is(err, gate.ErrInvalidTransfer) {
		t.Fatalf("expected ErrInvalidTransfer for self-transfer, got %v", err)
	}

	moved, err := e.TransferAsset("bob", a.ID, "carol")
	if err != nil {
		t.Fatalf("TransferAsset: %v", err)
	}
	if moved.Owner != "carol" {
		t.Fatalf("expected carol, got %s", moved.Owner)
	}

	// The fingerprint survives the move; the old owner is locked out.
	if moved.Fingerprint != a.Fingerprint {
		t.Fatal("fingerprint changed across transfer")
	}
	if _, err := e.TransferAsset("bob", a.ID, "dave"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for old owner, got %v", err)
	}
}

func TestTransferBlockedWhileAroused(t *testing.T) {
	e := testEngine(t)
	col, _ := e.InitializeCollection("authority", "Moods", "MOOD", "")
	a, err := e.MintAsset("bob", col.ID, mintInput(0.3, 0.9))
	if err != nil {
		t.Fatalf("MintAsset: %v", err)
	}

	hot := emotion.Vector{Valence: 0.4, Arousal: 0.75, Dominance: 0.5, Confidence: 0.9, Timestamp: 2000}
	var sig [64]byte
	if _, err := e.UpdateAssetEmotion("bob", a.ID, hot, sig, 0.9); err != nil {
		t.Fatalf("UpdateAssetEmotion: %v", err)
	}

	if _, err := e.TransferAsset("bob", a.ID, "carol"); !errors.Is(err, gate.ErrUnstableState) {
		t.Fatalf("expected ErrUnstableState, got %v", err)
	}

	// Calm back down; the transfer goes through.
	calm := emotion.Vector{Valence: 0.4, Arousal: 0.2, Dominance: 0.5, Confidence: 0.9, Timestamp: 3000}
	if _, err := e.UpdateAssetEmotion("bob", a.ID, calm, sig, 0.9); err != nil {
		t.Fatalf("UpdateAssetEmotion: %v", err)
	}
	if _, err := e.TransferAsset("bob", a.ID, "carol"); err != nil {
		t.Fatalf("TransferAsset after calming: %v", err)
	}
}

func TestMintEnforcesPolicy(t *testing.T) {
	st, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := DefaultConfig()
	cfg.Asset.MinConfidence = 0.5
	e := New(st, cfg, nil)

	col, _ := e.InitializeCollection("authority", "Moods", "MOOD", "")
	if _, err := e.MintAsset("bob", col.ID, mintInput(0.3, 0.4)); !errors.Is(err, asset.ErrLowConfidence) {
		t.Fatalf("expected ErrLowConfidence, got %v", err)
	}
	if _, err := e.MintAsset("bob", col.ID, mintInput(0.3, 0.6)); err != nil {
		t.Fatalf("MintAsset above threshold: %v", err)
	}
}

func TestUpdateAssetEmotionUnauthorized(t *testing.T) {
	e := testEngine(t)
	col, _ := e.InitializeCollection("authority", "Moods", "MOOD", "")
	a, _ := e.MintAsset("bob", col.ID, mintInput(0.3, 0.9))

	var sig [64]byte
	if _, err := e.UpdateAssetEmotion("mallory", a.ID, calmVector(2000), sig, 0.9); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAnalyzePatterns(t *testing.T) {
	e := testEngine(t)
	col, _ := e.InitializeCollection("authority", "Moods", "MOOD", "")

	joy := mintInput(0.3, 0.9)
	joy.Emotion = emotion.Vector{Valence: 0.8, Arousal: 0.7, Dominance: 0.9, Confidence: 0.9, Timestamp: 1000}
	a1, err := e.MintAsset("bob", col.ID, joy)
	if err != nil {
		t.Fatalf("MintAsset: %v", err)
	}

	elation := mintInput(0.3, 0.8)
	elation.Emotion = emotion.Vector{Valence: 0.7, Arousal: 0.8, Dominance: 0.8, Confidence: 0.7, Timestamp: 1000}
	a2, err := e.MintAsset("bob", col.ID, elation)
	if err != nil {
		t.Fatalf("MintAsset: %v", err)
	}

	analysis, err := e.AnalyzePatterns([]string{a1.ID, a2.ID})
	if err != nil {
		t.Fatalf("AnalyzePatterns: %v", err)
	}
	if analysis.AverageValence < 0.749 || analysis.AverageValence > 0.751 {
		t.Fatalf("expected average valence 0.75, got %f", analysis.AverageValence)
	}
	if analysis.Pattern != "stable_positive" {
		t.Fatalf("expected stable_positive, got %s", analysis.Pattern)
	}

	if _, err := e.AnalyzePatterns(nil); err == nil {
		t.Fatal("expected error for empty asset list")
	}
	if _, err := e.AnalyzePatterns([]string{"missing"}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEventTrail(t *testing.T) {
	e := testEngine(t)
	initSession(t, e, "alice", 1)

	obs := session.Observation{Vector: calmVector(2000), Intensity: 0.5, Quality: 0.5}
	if _, _, err := e.RecordPerformance("alice", sessionID(1), obs); err != nil {
		t.Fatalf("RecordPerformance: %v", err)
	}

	entries, err := event.ListFor(e.Store().DB(), hexID(sessionID(1)), 10)
	if err != nil {
		t.Fatalf("ListFor: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 events, got %d", len(entries))
	}
	if entries[0].Type != event.TypePerformanceRecorded || entries[1].Type != event.TypeSessionInitialized {
		t.Fatalf("unexpected event order: %s, %s", entries[0].Type, entries[1].Type)
	}
	if entries[0].Actor != "alice" {
		t.Fatalf("expected actor alice, got %s", entries[0].Actor)
	}
}
